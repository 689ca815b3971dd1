package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/plantscan/internal/domain"
)

const validPlant = `{
  "plantName": "Tomato",
  "scientificName": "Solanum lycopersicum",
  "healthStatus": "Diseased",
  "diseaseName": "Early Blight",
  "confidence": 87.5,
  "treatments": ["Remove infected leaves", "Apply copper fungicide"],
  "description": "Brown concentric spots on lower leaves.",
  "youtubeSuggestions": [
    {"title": "Early Blight Fix", "channelName": "Garden Pro", "summary": "Treat blight.", "searchQuery": "tomato early blight treatment"}
  ]
}`

const validLocation = `{
  "locationName": "Napa Valley, CA",
  "suitabilityScore": 78,
  "isSuitableForPlanting": true,
  "climateZone": "Mediterranean",
  "soilType": "Loamy",
  "bestCrops": ["Grapes", "Olives", "Garlic"],
  "reasoning": "Mild temperatures and well-drained soil."
}`

func TestDecodePlant(t *testing.T) {
	got, err := DecodePlant(validPlant)
	require.NoError(t, err)

	assert.Equal(t, "Tomato", got.PlantName)
	assert.Equal(t, domain.Diseased, got.HealthStatus)
	assert.Equal(t, "Early Blight", got.DiseaseName)
	assert.Equal(t, 87.5, got.Confidence)
	assert.Len(t, got.Treatments, 2)
	require.Len(t, got.YouTubeSuggestions, 1)
	assert.Equal(t, "tomato early blight treatment", got.YouTubeSuggestions[0].SearchQuery)
}

func TestDecodePlantFenced(t *testing.T) {
	got, err := DecodePlant("```json\n" + validPlant + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Tomato", got.PlantName)
}

func TestDecodePlantMissingFields(t *testing.T) {
	required := []string{"plantName", "scientificName", "healthStatus", "confidence", "treatments", "description", "youtubeSuggestions"}

	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, json.Unmarshal([]byte(validPlant), &doc))
			delete(doc, field)
			raw, err := json.Marshal(doc)
			require.NoError(t, err)

			_, err = DecodePlant(string(raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidResponse))
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestDecodePlantRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "not json", text: "I think this is a tomato."},
		{name: "bad status", text: `{"plantName":"a","scientificName":"b","healthStatus":"Sick","confidence":5,"treatments":[],"description":"d","youtubeSuggestions":[]}`},
		{name: "confidence too high", text: `{"plantName":"a","scientificName":"b","healthStatus":"Healthy","confidence":140,"treatments":[],"description":"d","youtubeSuggestions":[]}`},
		{name: "confidence negative", text: `{"plantName":"a","scientificName":"b","healthStatus":"Healthy","confidence":-1,"treatments":[],"description":"d","youtubeSuggestions":[]}`},
		{name: "incomplete suggestion", text: `{"plantName":"a","scientificName":"b","healthStatus":"Healthy","confidence":50,"treatments":[],"description":"d","youtubeSuggestions":[{"title":"t","channelName":"c"}]}`},
		{name: "null treatments", text: `{"plantName":"a","scientificName":"b","healthStatus":"Healthy","confidence":50,"treatments":null,"description":"d","youtubeSuggestions":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePlant(tt.text)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestDecodeLocation(t *testing.T) {
	got, err := DecodeLocation(validLocation)
	require.NoError(t, err)

	assert.Equal(t, "Napa Valley, CA", got.LocationName)
	assert.Equal(t, float64(78), got.SuitabilityScore)
	assert.True(t, got.IsSuitableForPlanting)
	assert.Equal(t, []string{"Grapes", "Olives", "Garlic"}, got.BestCrops)
	assert.Nil(t, got.Coordinates)
}

func TestDecodeLocationRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "missing reasoning", text: `{"locationName":"x","suitabilityScore":10,"isSuitableForPlanting":false,"climateZone":"c","soilType":"s","bestCrops":[]}`},
		{name: "score out of range", text: `{"locationName":"x","suitabilityScore":101,"isSuitableForPlanting":false,"climateZone":"c","soilType":"s","bestCrops":[],"reasoning":"r"}`},
		{name: "wrong type", text: `{"locationName":"x","suitabilityScore":"high","isSuitableForPlanting":false,"climateZone":"c","soilType":"s","bestCrops":[],"reasoning":"r"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLocation(tt.text)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestJSON(t *testing.T) {
	doc := JSON(Plant)

	assert.Equal(t, "object", doc["type"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)

	status := props["healthStatus"].(map[string]any)
	assert.Equal(t, "string", status["type"])
	assert.Equal(t, []string{"Healthy", "Diseased", "Unknown"}, status["enum"])

	videos := props["youtubeSuggestions"].(map[string]any)
	items := videos["items"].(map[string]any)
	assert.Equal(t, []string{"title", "channelName", "summary", "searchQuery"}, items["required"])

	assert.Nil(t, JSON(nil))
}
