package state

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantscan/internal/domain"
)

var basil = domain.PlantAnalysis{PlantName: "Basil", HealthStatus: domain.Healthy}

func TestStartsOnHome(t *testing.T) {
	assert.Equal(t, Home, New().Current())
}

func TestNavigate(t *testing.T) {
	s := New()
	for _, screen := range Screens {
		require.NoError(t, s.Navigate(screen))
		assert.Equal(t, screen, s.Current())
	}
}

func TestCompleteScanFromAnyView(t *testing.T) {
	for _, screen := range Screens {
		t.Run(string(screen), func(t *testing.T) {
			s := New()
			require.NoError(t, s.Navigate(screen))
			require.NoError(t, s.CompleteScan(basil, "/photos/a.jpg"))

			res, ok := s.Current().(Result)
			require.True(t, ok)
			assert.Equal(t, "Basil", res.Analysis.PlantName)
			assert.Equal(t, "/photos/a.jpg", res.ImageURL)
		})
	}
}

func TestCompleteScanRequiresImage(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.CompleteScan(basil, ""), ErrIncompleteResult)
	assert.Equal(t, Home, s.Current())
}

func TestNavigateBlockedDuringResult(t *testing.T) {
	s := New()
	require.NoError(t, s.CompleteScan(basil, "/photos/a.jpg"))

	assert.ErrorIs(t, s.Navigate(Dashboard), ErrResultActive)
	_, ok := s.Current().(Result)
	assert.True(t, ok)
}

func TestDismissForcesScan(t *testing.T) {
	s := New()
	require.NoError(t, s.Navigate(Marketplace))
	require.NoError(t, s.CompleteScan(basil, "/photos/a.jpg"))

	s.Dismiss()
	assert.Equal(t, Scan, s.Current())
	assert.NoError(t, s.Navigate(Dashboard))
}

func TestParseScreen(t *testing.T) {
	got, err := ParseScreen("map")
	require.NoError(t, err)
	assert.Equal(t, Map, got)

	_, err = ParseScreen("result")
	assert.ErrorIs(t, err, ErrUnknownScreen)
}

func TestViewNames(t *testing.T) {
	assert.Equal(t, "dashboard", Dashboard.Name())
	assert.Equal(t, "result", Result{}.Name())
}

func TestBusyGate(t *testing.T) {
	s := New()

	require.True(t, s.TryBegin(ActionScan))
	assert.False(t, s.TryBegin(ActionScan))
	assert.True(t, s.Busy(ActionScan))

	// Actions are independent.
	assert.True(t, s.TryBegin(ActionLocation))

	s.End(ActionScan)
	assert.False(t, s.Busy(ActionScan))
	assert.True(t, s.TryBegin(ActionScan))
}

func TestBusyGateConcurrent(t *testing.T) {
	s := New()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryBegin(ActionLocation) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())
}
