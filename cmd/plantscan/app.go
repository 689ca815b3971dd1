package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/plantscan/internal/advisor"
	"github.com/vbonduro/plantscan/internal/config"
	"github.com/vbonduro/plantscan/internal/db"
	"github.com/vbonduro/plantscan/internal/history"
	"github.com/vbonduro/plantscan/internal/logging"
	"github.com/vbonduro/plantscan/internal/market"
	"github.com/vbonduro/plantscan/internal/photostore/local"
	"github.com/vbonduro/plantscan/internal/service"
	"github.com/vbonduro/plantscan/internal/state"
	"github.com/vbonduro/plantscan/internal/store"
	"github.com/vbonduro/plantscan/internal/vision"
	claudevision "github.com/vbonduro/plantscan/internal/vision/claude"
	geminivision "github.com/vbonduro/plantscan/internal/vision/gemini"
	ollamavision "github.com/vbonduro/plantscan/internal/vision/ollama"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *sql.DB
	photos  *local.DirStore
	advisor *advisor.Advisor
	service *service.PlantService
	closers []func()
}

// newApp loads configuration and opens storage. The vision backend is only
// built when needAI is set, so history and market commands work offline.
func newApp(ctx context.Context, needAI bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, closers: []func(){cleanup}}

	a.db, err = db.Open(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := a.db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	})

	a.photos, err = local.NewDirStore(cfg.PhotoPath)
	if err != nil {
		a.Close()
		return nil, err
	}

	var gen vision.Generator = unavailableGenerator{}
	if needAI {
		gen, err = newGenerator(ctx, cfg, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.advisor = advisor.New(gen, logger,
		advisor.WithBackendName(cfg.VisionBackend),
		advisor.WithTimeout(cfg.AITimeout),
	)

	a.service = service.NewPlantService(
		a.advisor,
		history.New(store.NewKVStore(a.db), logger),
		state.New(),
		market.New(),
		a.photos,
		logger,
	)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (vision.Generator, error) {
	switch cfg.VisionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
		}
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeGenerator(cfg.ClaudeAPIKey, cfg.ClaudeModel, ""), nil
	case "ollama":
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaGenerator(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		logger.Info("using Gemini vision backend", "model", cfg.GeminiModel)
		g, err := geminivision.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

// unavailableGenerator backs commands that never call the model.
type unavailableGenerator struct{}

func (unavailableGenerator) Generate(context.Context, vision.Request) (string, error) {
	return "", fmt.Errorf("no vision backend configured for this command")
}
