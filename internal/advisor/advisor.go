// Package advisor turns vision model calls into plant and location analyses.
// Every failure is logged and replaced by a fixed fallback, so callers never
// see an error.
package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vbonduro/plantscan/internal/domain"
	"github.com/vbonduro/plantscan/internal/prompt"
	"github.com/vbonduro/plantscan/internal/schema"
	"github.com/vbonduro/plantscan/internal/vision"
)

const (
	plantTemperature    = 0.4
	locationTemperature = 0.5
)

type Advisor struct {
	gen     vision.Generator
	backend string
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
	group   singleflight.Group
}

type Option func(*Advisor)

// WithTimeout bounds each model call. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) { a.timeout = d }
}

// WithClock overrides the clock used to pick the month for location prompts.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// WithBackendName labels log lines with the backend in use.
func WithBackendName(name string) Option {
	return func(a *Advisor) { a.backend = name }
}

func New(gen vision.Generator, logger *slog.Logger, opts ...Option) *Advisor {
	a := &Advisor{
		gen:     gen,
		backend: "unknown",
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzePlantImage diagnoses the plant in img. ok is false when the returned
// analysis is the fallback. Concurrent calls with identical images share one
// model request. The shared request is detached from any one caller, so a
// caller that gives up gets the fallback without failing the others.
func (a *Advisor) AnalyzePlantImage(ctx context.Context, img prompt.Image) (domain.PlantAnalysis, bool) {
	shared := context.WithoutCancel(ctx)
	ch := a.group.DoChan(imageKey(img), func() (any, error) {
		analysis, ok := a.analyzePlant(shared, img)
		if !ok {
			return nil, nil
		}
		return analysis, nil
	})

	select {
	case res := <-ch:
		if analysis, ok := res.Val.(domain.PlantAnalysis); ok {
			return clonePlant(analysis), true
		}
	case <-ctx.Done():
		a.logger.Warn("plant analysis abandoned by caller", "backend", a.backend, "error", ctx.Err())
	}
	return PlantFallback(), false
}

func (a *Advisor) analyzePlant(ctx context.Context, img prompt.Image) (domain.PlantAnalysis, bool) {
	text, err := a.generate(ctx, vision.Request{
		Payload:     prompt.Plant(img),
		Schema:      schema.Plant,
		Temperature: plantTemperature,
	})
	if err != nil {
		a.logger.Error("plant analysis failed", "backend", a.backend, "error", err)
		return domain.PlantAnalysis{}, false
	}
	analysis, err := schema.DecodePlant(text)
	if err != nil {
		a.logger.Error("plant analysis failed", "backend", a.backend, "error", err)
		return domain.PlantAnalysis{}, false
	}
	return analysis, true
}

// AnalyzeFarmingLocation assesses query for farming in the current month. ok is
// false when the returned analysis is the fallback.
func (a *Advisor) AnalyzeFarmingLocation(ctx context.Context, query string) (domain.LocationAnalysis, bool) {
	text, err := a.generate(ctx, vision.Request{
		Payload:     prompt.Location(query, a.now().Month()),
		Schema:      schema.Location,
		Temperature: locationTemperature,
	})
	if err != nil {
		a.logger.Error("location analysis failed", "backend", a.backend, "query", query, "error", err)
		return LocationFallback(query), false
	}
	analysis, err := schema.DecodeLocation(text)
	if err != nil {
		a.logger.Error("location analysis failed", "backend", a.backend, "query", query, "error", err)
		return LocationFallback(query), false
	}
	return analysis, true
}

// generate calls the backend under the configured timeout. A panicking
// backend is reported as an error.
func (a *Advisor) generate(ctx context.Context, req vision.Request) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vision backend panicked: %v", r)
		}
	}()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.gen.Generate(ctx, req)
}

// PlantFallback is returned in place of a diagnosis when analysis fails.
func PlantFallback() domain.PlantAnalysis {
	return domain.PlantAnalysis{
		PlantName:      "Analysis Failed",
		ScientificName: "Unknown",
		HealthStatus:   domain.Unknown,
		Confidence:     0,
		Treatments: []string{
			"Check internet connection",
			"Ensure API Key is valid",
			"Try a clearer photo",
		},
		Description:        "Could not process image.",
		YouTubeSuggestions: []domain.YouTubeSuggestion{},
	}
}

// LocationFallback is returned in place of a location assessment when
// analysis fails. The location name echoes the user's query.
func LocationFallback(query string) domain.LocationAnalysis {
	return domain.LocationAnalysis{
		LocationName:          query,
		SuitabilityScore:      0,
		IsSuitableForPlanting: false,
		ClimateZone:           "Unknown",
		SoilType:              "Unknown",
		BestCrops:             []string{},
		Reasoning:             "Unable to analyze this location. Please check your connection and try again.",
	}
}

func imageKey(img prompt.Image) string {
	h := sha256.New()
	h.Write([]byte(prompt.NormaliseMIME(img.MIMEType)))
	h.Write([]byte{0})
	h.Write(img.Data)
	return hex.EncodeToString(h.Sum(nil))
}

// clonePlant copies the slices so callers sharing a request do not alias.
func clonePlant(a domain.PlantAnalysis) domain.PlantAnalysis {
	a.Treatments = append([]string(nil), a.Treatments...)
	a.YouTubeSuggestions = append([]domain.YouTubeSuggestion(nil), a.YouTubeSuggestions...)
	return a
}
