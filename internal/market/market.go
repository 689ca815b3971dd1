// Package market is the in-memory listing catalogue for seeds, plants,
// tools and fertilizer.
package market

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vbonduro/plantscan/internal/domain"
)

// AllCategories matches every listing in Filter.
const AllCategories = "All"

// DefaultImage is used for listings posted without a photo.
const DefaultImage = "https://images.unsplash.com/photo-1530836369250-ef72a3f5cda8?auto=format&fit=crop&q=80&w=200"

var (
	ErrIncompleteListing = errors.New("name, price and location are required")
	ErrUnknownCategory   = errors.New("unknown category")
)

// Listing is what a seller fills in.
type Listing struct {
	Name     string
	Price    string
	Category domain.Category
	Location string
	Image    string
}

type Catalog struct {
	mu    sync.RWMutex
	items []domain.MarketItem
}

// New returns a catalogue holding the starter listings.
func New() *Catalog {
	return &Catalog{items: Seed()}
}

func Seed() []domain.MarketItem {
	return []domain.MarketItem{
		{
			ID:       "1",
			Name:     "Organic Tomato Seeds",
			Price:    "$5.00",
			Category: domain.Seeds,
			Image:    "https://images.unsplash.com/photo-1592841200221-a6898f307baa?auto=format&fit=crop&q=80&w=200",
			Location: "Green Valley",
			Seller:   "Sarah Jenkins",
			Rating:   4.8,
		},
		{
			ID:       "2",
			Name:     "Heavy Duty Garden Shovel",
			Price:    "$24.50",
			Category: domain.Tools,
			Image:    "https://images.unsplash.com/photo-1530268578403-ade528997a31?auto=format&fit=crop&q=80&w=200",
			Location: "Uptown Hardware",
			Seller:   "Mike Tools",
			Rating:   4.5,
		},
		{
			ID:       "3",
			Name:     "Natural NPK Fertilizer (5kg)",
			Price:    "$18.00",
			Category: domain.Fertilizer,
			Image:    "https://images.unsplash.com/photo-1628186177579-2a9009804c8f?auto=format&fit=crop&q=80&w=200",
			Location: "Farm Depot",
			Seller:   "Green Earth Co",
			Rating:   4.9,
		},
		{
			ID:       "4",
			Name:     "Grafted Mango Sapling",
			Price:    "$12.00",
			Category: domain.Plants,
			Image:    "https://images.unsplash.com/photo-1550989460-0adf9ea622e2?auto=format&fit=crop&q=80&w=200",
			Location: "Sunny Nursery",
			Seller:   "Plant Pros",
			Rating:   4.7,
		},
	}
}

// Filter returns listings in category (or AllCategories) whose name contains
// search, ignoring case. Catalogue order is kept.
func (c *Catalog) Filter(category, search string) []domain.MarketItem {
	if category == "" {
		category = AllCategories
	}
	needle := strings.ToLower(search)

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.MarketItem, 0, len(c.items))
	for _, it := range c.items {
		if category != AllCategories && string(it.Category) != category {
			continue
		}
		if !strings.Contains(strings.ToLower(it.Name), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (c *Catalog) All() []domain.MarketItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Validate reports whether l can be posted. An empty category means Seeds.
func (l Listing) Validate() error {
	if strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Price) == "" || strings.TrimSpace(l.Location) == "" {
		return ErrIncompleteListing
	}
	if l.Category != "" && !l.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, l.Category)
	}
	return nil
}

// Post validates l and adds it at the head of the catalogue.
func (c *Catalog) Post(l Listing) (domain.MarketItem, error) {
	if err := l.Validate(); err != nil {
		return domain.MarketItem{}, err
	}
	name := strings.TrimSpace(l.Name)
	price := strings.TrimSpace(l.Price)
	location := strings.TrimSpace(l.Location)

	category := l.Category
	if category == "" {
		category = domain.Seeds
	}

	if !strings.HasPrefix(price, "$") {
		price = "$" + price
	}
	image := l.Image
	if image == "" {
		image = DefaultImage
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.MarketItem{}, fmt.Errorf("failed to generate listing id: %w", err)
	}

	item := domain.MarketItem{
		ID:       id.String(),
		Name:     name,
		Price:    price,
		Category: category,
		Image:    image,
		Location: location,
		Seller:   "You",
		Rating:   5.0,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]domain.MarketItem{item}, c.items...)
	return item, nil
}
