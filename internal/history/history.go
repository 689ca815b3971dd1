// Package history keeps the list of past scans, newest first, and mirrors it
// to durable storage after every change.
package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/plantscan/internal/domain"
)

// StorageKey is the single key the whole list is stored under.
const StorageKey = "plant_history"

// DateLayout matches the short "Oct 24, 9:00 AM" style shown in the UI.
const DateLayout = "Jan 2, 3:04 PM"

// kvStore is the subset of store.KVStore that History requires.
type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type History struct {
	mu     sync.Mutex
	kv     kvStore
	logger *slog.Logger
	items  []domain.ScanHistoryItem
	loaded bool
}

func New(kv kvStore, logger *slog.Logger) *History {
	return &History{kv: kv, logger: logger}
}

// Seed is the list shown before anything has been saved.
func Seed() []domain.ScanHistoryItem {
	return []domain.ScanHistoryItem{
		{
			ID:           "1",
			Date:         "Today, 10:23 AM",
			ImageURL:     "https://images.unsplash.com/photo-1592841200221-a6898f307baa?auto=format&fit=crop&q=80&w=200",
			PlantName:    "Tomato Plant",
			HealthStatus: domain.Diseased,
		},
		{
			ID:           "2",
			Date:         "Yesterday, 4:15 PM",
			ImageURL:     "https://images.unsplash.com/photo-1551754655-cd27e38d2076?auto=format&fit=crop&q=80&w=200",
			PlantName:    "Corn Maize",
			HealthStatus: domain.Healthy,
		},
		{
			ID:           "3",
			Date:         "Oct 24, 9:00 AM",
			ImageURL:     "https://images.unsplash.com/photo-1518977676605-69f23370dd0d?auto=format&fit=crop&q=80&w=200",
			PlantName:    "Potato Leaf",
			HealthStatus: domain.Healthy,
		},
	}
}

// Load reads the stored list once. An absent or unreadable value yields the
// seed list. A storage failure is returned and the read is retried on the next
// call; until one succeeds the seed is shown and nothing is written back, so
// a transient error cannot overwrite the saved list.
func (h *History) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

func (h *History) load(ctx context.Context) error {
	if h.loaded {
		return nil
	}
	raw, ok, err := h.kv.Get(ctx, StorageKey)
	if err != nil {
		if h.items == nil {
			h.items = Seed()
		}
		h.logger.Error("failed to read history", "error", err)
		return err
	}
	h.loaded = true
	h.items = Seed()
	if !ok {
		return nil
	}

	var items []domain.ScanHistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		h.logger.Warn("stored history is corrupt, using seed list", "error", err)
		return nil
	}
	if items == nil {
		items = []domain.ScanHistoryItem{}
	}
	h.items = items
	return nil
}

// List returns a copy of the current list, newest first.
func (h *History) List(ctx context.Context) []domain.ScanHistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = h.load(ctx)
	return slices.Clone(h.items)
}

// Add puts item at the head of the list.
func (h *History) Add(ctx context.Context, item domain.ScanHistoryItem) {
	h.mutate(ctx, func(items []domain.ScanHistoryItem) []domain.ScanHistoryItem {
		return Prepend(items, item)
	})
}

// Delete removes the item with id and returns it. ok is false when no item
// matched, in which case nothing is written.
func (h *History) Delete(ctx context.Context, id string) (removed domain.ScanHistoryItem, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = h.load(ctx)

	idx := slices.IndexFunc(h.items, func(it domain.ScanHistoryItem) bool { return it.ID == id })
	if idx < 0 {
		return domain.ScanHistoryItem{}, false
	}
	removed = h.items[idx]
	h.items = Remove(h.items, id)
	h.persist(ctx)
	return removed, true
}

// Clear empties the list and returns what it held. The seed does not come
// back on the next load.
func (h *History) Clear(ctx context.Context) []domain.ScanHistoryItem {
	var cleared []domain.ScanHistoryItem
	h.mutate(ctx, func(items []domain.ScanHistoryItem) []domain.ScanHistoryItem {
		cleared = items
		return []domain.ScanHistoryItem{}
	})
	return cleared
}

func (h *History) mutate(ctx context.Context, fn func([]domain.ScanHistoryItem) []domain.ScanHistoryItem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = h.load(ctx)
	h.items = fn(h.items)
	h.persist(ctx)
}

// persist writes the whole list. The in-memory list stays authoritative if the
// write fails. Nothing is written while the stored list is still unread.
func (h *History) persist(ctx context.Context) {
	if !h.loaded {
		h.logger.Warn("history change kept in memory only, stored list not yet read")
		return
	}
	raw, err := json.Marshal(h.items)
	if err != nil {
		h.logger.Error("failed to encode history", "error", err)
		return
	}
	if err := h.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		h.logger.Error("failed to save history", "error", err)
	}
}

// Prepend returns a new list with item first followed by items.
func Prepend(items []domain.ScanHistoryItem, item domain.ScanHistoryItem) []domain.ScanHistoryItem {
	out := make([]domain.ScanHistoryItem, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// Remove returns a new list without the items whose ID is id.
func Remove(items []domain.ScanHistoryItem, id string) []domain.ScanHistoryItem {
	out := make([]domain.ScanHistoryItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// NewItem records a completed scan taken at now.
func NewItem(analysis domain.PlantAnalysis, imageURL string, now time.Time) domain.ScanHistoryItem {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return domain.ScanHistoryItem{
		ID:           id.String(),
		Date:         now.Format(DateLayout),
		ImageURL:     imageURL,
		PlantName:    analysis.PlantName,
		HealthStatus: analysis.HealthStatus,
	}
}
