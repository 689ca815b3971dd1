package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vbonduro/plantscan/internal/domain"
)

// ErrInvalidResponse is wrapped by every decode failure.
var ErrInvalidResponse = errors.New("invalid model response")

type suggestionWire struct {
	Title       *string `json:"title"`
	ChannelName *string `json:"channelName"`
	Summary     *string `json:"summary"`
	SearchQuery *string `json:"searchQuery"`
}

type plantWire struct {
	PlantName          *string           `json:"plantName"`
	ScientificName     *string           `json:"scientificName"`
	HealthStatus       *string           `json:"healthStatus"`
	DiseaseName        *string           `json:"diseaseName"`
	Confidence         *float64          `json:"confidence"`
	Treatments         *[]string         `json:"treatments"`
	Description        *string           `json:"description"`
	YouTubeSuggestions *[]suggestionWire `json:"youtubeSuggestions"`
}

type locationWire struct {
	LocationName          *string   `json:"locationName"`
	SuitabilityScore      *float64  `json:"suitabilityScore"`
	IsSuitableForPlanting *bool     `json:"isSuitableForPlanting"`
	ClimateZone           *string   `json:"climateZone"`
	SoilType              *string   `json:"soilType"`
	BestCrops             *[]string `json:"bestCrops"`
	Reasoning             *string   `json:"reasoning"`

	Coordinates *domain.Coordinates `json:"coordinates"`
}

// DecodePlant parses a model response into a PlantAnalysis, rejecting any
// payload that is missing a required field or has out-of-range values.
func DecodePlant(text string) (domain.PlantAnalysis, error) {
	var w plantWire
	if err := unmarshal(text, &w); err != nil {
		return domain.PlantAnalysis{}, err
	}

	var missing []string
	if w.PlantName == nil {
		missing = append(missing, "plantName")
	}
	if w.ScientificName == nil {
		missing = append(missing, "scientificName")
	}
	if w.HealthStatus == nil {
		missing = append(missing, "healthStatus")
	}
	if w.Confidence == nil {
		missing = append(missing, "confidence")
	}
	if w.Treatments == nil {
		missing = append(missing, "treatments")
	}
	if w.Description == nil {
		missing = append(missing, "description")
	}
	if w.YouTubeSuggestions == nil {
		missing = append(missing, "youtubeSuggestions")
	}
	if len(missing) > 0 {
		return domain.PlantAnalysis{}, missingFields(missing)
	}

	status := domain.HealthStatus(*w.HealthStatus)
	if !status.Valid() {
		return domain.PlantAnalysis{}, fmt.Errorf("%w: healthStatus %q not in enum", ErrInvalidResponse, *w.HealthStatus)
	}
	if err := inRange("confidence", *w.Confidence, 0, 100); err != nil {
		return domain.PlantAnalysis{}, err
	}

	suggestions := make([]domain.YouTubeSuggestion, 0, len(*w.YouTubeSuggestions))
	for i, s := range *w.YouTubeSuggestions {
		if s.Title == nil || s.ChannelName == nil || s.Summary == nil || s.SearchQuery == nil {
			return domain.PlantAnalysis{}, fmt.Errorf("%w: youtubeSuggestions[%d] is incomplete", ErrInvalidResponse, i)
		}
		suggestions = append(suggestions, domain.YouTubeSuggestion{
			Title:       *s.Title,
			ChannelName: *s.ChannelName,
			Summary:     *s.Summary,
			SearchQuery: *s.SearchQuery,
		})
	}

	analysis := domain.PlantAnalysis{
		PlantName:          *w.PlantName,
		ScientificName:     *w.ScientificName,
		HealthStatus:       status,
		Confidence:         *w.Confidence,
		Treatments:         nonNil(*w.Treatments),
		Description:        *w.Description,
		YouTubeSuggestions: suggestions,
	}
	if w.DiseaseName != nil {
		analysis.DiseaseName = *w.DiseaseName
	}
	return analysis, nil
}

// DecodeLocation parses a model response into a LocationAnalysis.
func DecodeLocation(text string) (domain.LocationAnalysis, error) {
	var w locationWire
	if err := unmarshal(text, &w); err != nil {
		return domain.LocationAnalysis{}, err
	}

	var missing []string
	if w.LocationName == nil {
		missing = append(missing, "locationName")
	}
	if w.SuitabilityScore == nil {
		missing = append(missing, "suitabilityScore")
	}
	if w.IsSuitableForPlanting == nil {
		missing = append(missing, "isSuitableForPlanting")
	}
	if w.ClimateZone == nil {
		missing = append(missing, "climateZone")
	}
	if w.SoilType == nil {
		missing = append(missing, "soilType")
	}
	if w.BestCrops == nil {
		missing = append(missing, "bestCrops")
	}
	if w.Reasoning == nil {
		missing = append(missing, "reasoning")
	}
	if len(missing) > 0 {
		return domain.LocationAnalysis{}, missingFields(missing)
	}

	if err := inRange("suitabilityScore", *w.SuitabilityScore, 0, 100); err != nil {
		return domain.LocationAnalysis{}, err
	}

	return domain.LocationAnalysis{
		LocationName:          *w.LocationName,
		SuitabilityScore:      *w.SuitabilityScore,
		IsSuitableForPlanting: *w.IsSuitableForPlanting,
		ClimateZone:           *w.ClimateZone,
		SoilType:              *w.SoilType,
		BestCrops:             nonNil(*w.BestCrops),
		Reasoning:             *w.Reasoning,
		Coordinates:           w.Coordinates,
	}, nil
}

// StripFences removes a surrounding markdown code block, which text-only
// backends sometimes add even when asked for bare JSON.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func unmarshal(text string, v any) error {
	text = StripFences(text)
	if text == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func missingFields(names []string) error {
	return fmt.Errorf("%w: missing %s", ErrInvalidResponse, strings.Join(names, ", "))
}

func inRange(field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %v outside [%v,%v]", ErrInvalidResponse, field, v, lo, hi)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
