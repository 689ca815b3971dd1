package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthStatusValid(t *testing.T) {
	assert.True(t, Healthy.Valid())
	assert.True(t, Diseased.Valid())
	assert.True(t, Unknown.Valid())
	assert.False(t, HealthStatus("healthy").Valid())
	assert.False(t, HealthStatus("").Valid())
}

func TestTreatmentSearchURL(t *testing.T) {
	a := PlantAnalysis{PlantName: "Tomato", DiseaseName: "Early Blight"}
	assert.Equal(t, "https://www.youtube.com/results?search_query=how+to+treat+Early+Blight", a.TreatmentSearchURL())

	a.DiseaseName = ""
	assert.Equal(t, "https://www.youtube.com/results?search_query=how+to+treat+Tomato", a.TreatmentSearchURL())
}

func TestYouTubeSearchURL(t *testing.T) {
	s := YouTubeSuggestion{SearchQuery: "neem oil & aphids"}
	assert.Equal(t, "https://www.youtube.com/results?search_query=neem+oil+%26+aphids", s.SearchURL())
}

func TestMapsURL(t *testing.T) {
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=S%C3%A3o+Paulo", MapsURL("São Paulo"))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("All").Valid())
	assert.False(t, Category("seeds").Valid())
}
