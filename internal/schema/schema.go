// Package schema declares the response shapes the vision model is asked to
// emit and checks decoded responses against them before they are trusted.
package schema

import (
	"strings"

	"google.golang.org/genai"
)

// Plant is the response shape for a single plant image diagnosis.
var Plant = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"plantName":      {Type: genai.TypeString, Description: "Common name of the plant"},
		"scientificName": {Type: genai.TypeString, Description: "Scientific Latin name"},
		"healthStatus": {
			Type:        genai.TypeString,
			Enum:        []string{"Healthy", "Diseased", "Unknown"},
			Description: "Overall health condition",
		},
		"diseaseName": {Type: genai.TypeString, Description: "Name of the disease if detected, or 'None'"},
		"confidence":  {Type: genai.TypeNumber, Description: "Confidence score between 0 and 100"},
		"treatments": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "List of recommended treatments or care tips",
		},
		"description": {Type: genai.TypeString, Description: "Brief summary of the analysis"},
		"youtubeSuggestions": {
			Type:        genai.TypeArray,
			Description: "List of 3-5 YouTube videos that explain how to fix the specific problem.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString, Description: "Video title (e.g. 'How to Treat Tomato Blight')"},
					"channelName": {Type: genai.TypeString, Description: "Name of a trusted agriculture YouTube channel"},
					"summary":     {Type: genai.TypeString, Description: "One sentence summary of what the video teaches"},
					"searchQuery": {Type: genai.TypeString, Description: "Optimized YouTube search query to find this exact topic"},
				},
				Required: []string{"title", "channelName", "summary", "searchQuery"},
			},
		},
	},
	Required: []string{"plantName", "scientificName", "healthStatus", "confidence", "treatments", "description", "youtubeSuggestions"},
}

// Location is the response shape for a farming location assessment.
var Location = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"locationName":          {Type: genai.TypeString, Description: "The formatted address or name of the location"},
		"suitabilityScore":      {Type: genai.TypeNumber, Description: "Score 0-100 indicating how good conditions are for general farming right now"},
		"isSuitableForPlanting": {Type: genai.TypeBoolean, Description: "True if generally suitable to plant crops now"},
		"climateZone":           {Type: genai.TypeString, Description: "Brief climate description (e.g. 'Tropical Wet', 'Mediterranean')"},
		"soilType":              {Type: genai.TypeString, Description: "Likely soil composition for this region (e.g. 'Loamy', 'Sandy Clay')"},
		"bestCrops": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "List of 3-5 specific crops that would thrive here right now",
		},
		"reasoning": {Type: genai.TypeString, Description: "Explanation of why this location is suitable or not (temp, humidity, season)"},
	},
	Required: []string{"locationName", "suitabilityScore", "isSuitableForPlanting", "climateZone", "soilType", "bestCrops", "reasoning"},
}

// JSON renders s as a standard JSON Schema document. Gemini spells types in
// upper case; JSON Schema consumers such as Ollama expect lower case.
func JSON(s *genai.Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": strings.ToLower(string(s.Type))}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = JSON(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = JSON(p)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
