// Package state holds the active screen and the in-flight action flags.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vbonduro/plantscan/internal/domain"
)

var (
	// ErrResultActive is returned when navigating while a result is shown.
	ErrResultActive = errors.New("a scan result is being shown")
	// ErrIncompleteResult is returned for a result without an image.
	ErrIncompleteResult = errors.New("scan result needs an image")
	ErrUnknownScreen    = errors.New("unknown screen")
)

// View is either a Screen or a Result. The unexported method seals the set.
type View interface {
	Name() string
	view()
}

type Screen string

const (
	Home        Screen = "home"
	Scan        Screen = "scan"
	Dashboard   Screen = "dashboard"
	Marketplace Screen = "marketplace"
	Map         Screen = "map"
)

// Screens lists the navigable screens in tab order.
var Screens = []Screen{Home, Scan, Dashboard, Marketplace, Map}

// ParseScreen resolves a screen by its name.
func ParseScreen(name string) (Screen, error) {
	for _, s := range Screens {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScreen, name)
}

func (s Screen) Name() string { return string(s) }
func (Screen) view()          {}

// Result overlays every screen until dismissed.
type Result struct {
	Analysis domain.PlantAnalysis
	ImageURL string
}

func (Result) Name() string { return "result" }
func (Result) view()        {}

type Action int

const (
	ActionScan Action = iota
	ActionLocation
)

func (a Action) String() string {
	switch a {
	case ActionScan:
		return "scan"
	case ActionLocation:
		return "location"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

type Store struct {
	mu      sync.Mutex
	current View
	busy    map[Action]bool
}

// New starts on the Home screen.
func New() *Store {
	return &Store{current: Home, busy: make(map[Action]bool)}
}

func (s *Store) Current() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate switches screens. It fails while a result is shown.
func (s *Store) Navigate(to Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.current.(Result); ok {
		return ErrResultActive
	}
	s.current = to
	return nil
}

// CompleteScan shows the result from any view.
func (s *Store) CompleteScan(analysis domain.PlantAnalysis, imageURL string) error {
	if imageURL == "" {
		return ErrIncompleteResult
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Result{Analysis: analysis, ImageURL: imageURL}
	return nil
}

// Dismiss clears any result and returns to the Scan screen.
func (s *Store) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Scan
}

// TryBegin marks a as in flight. It reports false if a already is.
func (s *Store) TryBegin(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[a] {
		return false
	}
	s.busy[a] = true
	return true
}

func (s *Store) End(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, a)
}

func (s *Store) Busy(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[a]
}
