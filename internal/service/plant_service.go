package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/plantscan/internal/dashboard"
	"github.com/vbonduro/plantscan/internal/domain"
	"github.com/vbonduro/plantscan/internal/history"
	"github.com/vbonduro/plantscan/internal/market"
	"github.com/vbonduro/plantscan/internal/photostore"
	"github.com/vbonduro/plantscan/internal/prompt"
	"github.com/vbonduro/plantscan/internal/state"
)

var (
	ErrBusy         = errors.New("another request of this kind is in progress")
	ErrEmptyQuery   = errors.New("location query is empty")
	ErrEmptyImage   = errors.New("image is empty")
	ErrItemNotFound = errors.New("history item not found")
)

// advisor is the subset of advisor.Advisor that PlantService requires.
type advisor interface {
	AnalyzePlantImage(ctx context.Context, img prompt.Image) (domain.PlantAnalysis, bool)
	AnalyzeFarmingLocation(ctx context.Context, query string) (domain.LocationAnalysis, bool)
}

// historyRepository is the subset of history.History that PlantService requires.
type historyRepository interface {
	List(ctx context.Context) []domain.ScanHistoryItem
	Add(ctx context.Context, item domain.ScanHistoryItem)
	Delete(ctx context.Context, id string) (domain.ScanHistoryItem, bool)
	Clear(ctx context.Context) []domain.ScanHistoryItem
}

// ScanOutcome is what a completed scan produced. Fallback is set when the
// analysis is the placeholder shown after a failed model call.
type ScanOutcome struct {
	Analysis domain.PlantAnalysis   `json:"analysis"`
	Item     domain.ScanHistoryItem `json:"item"`
	Fallback bool                   `json:"fallback"`
}

type LocationOutcome struct {
	Analysis domain.LocationAnalysis `json:"analysis"`
	MapsURL  string                  `json:"mapsUrl"`
	Fallback bool                    `json:"fallback"`
}

type PlantService struct {
	advisor  advisor
	history  historyRepository
	state    *state.Store
	catalog  *market.Catalog
	photoStg photostore.PhotoStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewPlantService(
	adv advisor,
	hist historyRepository,
	st *state.Store,
	catalog *market.Catalog,
	photoStg photostore.PhotoStore,
	logger *slog.Logger,
) *PlantService {
	return &PlantService{
		advisor:  adv,
		history:  hist,
		state:    st,
		catalog:  catalog,
		photoStg: photoStg,
		logger:   logger,
		now:      time.Now,
	}
}

// Scan diagnoses img, shows the result and records it at the head of the
// history. Only one scan runs at a time.
func (s *PlantService) Scan(ctx context.Context, img prompt.Image) (ScanOutcome, error) {
	if len(img.Data) == 0 {
		return ScanOutcome{}, ErrEmptyImage
	}
	img.MIMEType = prompt.NormaliseMIME(img.MIMEType)

	if !s.state.TryBegin(state.ActionScan) {
		return ScanOutcome{}, ErrBusy
	}
	defer s.state.End(state.ActionScan)

	s.logger.Info("scan started", "mime_type", img.MIMEType, "bytes", len(img.Data))
	analysis, ok := s.advisor.AnalyzePlantImage(ctx, img)
	s.logger.Info("scan analysis complete", "plant", analysis.PlantName, "health", analysis.HealthStatus, "fallback", !ok)

	return s.Record(ctx, img, analysis, !ok)
}

// Record stores img, shows analysis as the current result and adds it to the
// history. Batch callers that analyze images themselves use it directly.
func (s *PlantService) Record(ctx context.Context, img prompt.Image, analysis domain.PlantAnalysis, fallback bool) (ScanOutcome, error) {
	if len(img.Data) == 0 {
		return ScanOutcome{}, ErrEmptyImage
	}
	img.MIMEType = prompt.NormaliseMIME(img.MIMEType)
	imageURL := s.saveImage(ctx, "scan", img)

	if err := s.state.CompleteScan(analysis, imageURL); err != nil {
		return ScanOutcome{}, fmt.Errorf("failed to show result: %w", err)
	}

	item := history.NewItem(analysis, imageURL, s.now())
	s.history.Add(ctx, item)

	return ScanOutcome{Analysis: analysis, Item: item, Fallback: fallback}, nil
}

// SearchLocation assesses query for farming. A blank query is rejected
// before any request is made. The model sees the query as typed; the map
// link uses the trimmed form.
func (s *PlantService) SearchLocation(ctx context.Context, query string) (LocationOutcome, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return LocationOutcome{}, ErrEmptyQuery
	}

	if !s.state.TryBegin(state.ActionLocation) {
		return LocationOutcome{}, ErrBusy
	}
	defer s.state.End(state.ActionLocation)

	s.logger.Info("location search started", "query", query)
	analysis, ok := s.advisor.AnalyzeFarmingLocation(ctx, query)

	return LocationOutcome{
		Analysis: analysis,
		MapsURL:  domain.MapsURL(trimmed),
		Fallback: !ok,
	}, nil
}

func (s *PlantService) View() state.View {
	return s.state.Current()
}

// Navigate switches to the named screen.
func (s *PlantService) Navigate(name string) error {
	screen, err := state.ParseScreen(name)
	if err != nil {
		return err
	}
	return s.state.Navigate(screen)
}

func (s *PlantService) Dismiss() {
	s.state.Dismiss()
}

func (s *PlantService) History(ctx context.Context) []domain.ScanHistoryItem {
	return s.history.List(ctx)
}

// DeleteHistoryItem removes the record and, when it owns a stored photo, the
// photo too.
func (s *PlantService) DeleteHistoryItem(ctx context.Context, id string) error {
	removed, ok := s.history.Delete(ctx, id)
	if !ok {
		return ErrItemNotFound
	}
	s.deletePhoto(ctx, removed.ImageURL)
	return nil
}

func (s *PlantService) ClearHistory(ctx context.Context) {
	for _, it := range s.history.Clear(ctx) {
		s.deletePhoto(ctx, it.ImageURL)
	}
}

func (s *PlantService) Dashboard(ctx context.Context) dashboard.Snapshot {
	return dashboard.New(len(s.history.List(ctx)))
}

func (s *PlantService) Market(category, search string) []domain.MarketItem {
	return s.catalog.Filter(category, search)
}

// PostListing adds a listing. img may be nil, in which case the default
// listing image is used.
func (s *PlantService) PostListing(ctx context.Context, l market.Listing, img *prompt.Image) (domain.MarketItem, error) {
	if err := l.Validate(); err != nil {
		return domain.MarketItem{}, err
	}
	if img != nil && len(img.Data) > 0 {
		l.Image = s.saveImage(ctx, "listing", *img)
	}
	item, err := s.catalog.Post(l)
	if err != nil {
		s.deletePhoto(ctx, l.Image)
		return domain.MarketItem{}, err
	}
	s.logger.Info("listing posted", "id", item.ID, "category", item.Category)
	return item, nil
}

// saveImage stores img and returns its URL. If storage fails the image is
// kept inline as a data URL so the result can still be shown.
func (s *PlantService) saveImage(ctx context.Context, prefix string, img prompt.Image) string {
	key, err := s.photoStg.Save(ctx, prefix, img.MIMEType, bytes.NewReader(img.Data))
	if err != nil {
		s.logger.Error("failed to save photo, keeping it inline", "prefix", prefix, "error", err)
		return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	}
	s.logger.Debug("photo saved", "storage_key", key)
	return photostore.URL(key)
}

func (s *PlantService) deletePhoto(ctx context.Context, imageURL string) {
	key, ok := photostore.KeyFromURL(imageURL)
	if !ok {
		return
	}
	if err := s.photoStg.Delete(ctx, key); err != nil && !errors.Is(err, photostore.ErrNotFound) {
		s.logger.Error("failed to delete photo", "storage_key", key, "error", err)
	}
}
