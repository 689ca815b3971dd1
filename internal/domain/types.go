package domain

import "net/url"

type HealthStatus string

const (
	Healthy  HealthStatus = "Healthy"
	Diseased HealthStatus = "Diseased"
	Unknown  HealthStatus = "Unknown"
)

// Valid reports whether s is one of the three statuses the model may return.
func (s HealthStatus) Valid() bool {
	switch s {
	case Healthy, Diseased, Unknown:
		return true
	default:
		return false
	}
}

type YouTubeSuggestion struct {
	Title       string `json:"title"`
	ChannelName string `json:"channelName"`
	Summary     string `json:"summary"`
	SearchQuery string `json:"searchQuery"`
}

// SearchURL links to YouTube search results for the suggestion's query.
func (s YouTubeSuggestion) SearchURL() string {
	return youtubeSearch(s.SearchQuery)
}

type PlantAnalysis struct {
	PlantName          string              `json:"plantName"`
	ScientificName     string              `json:"scientificName"`
	HealthStatus       HealthStatus        `json:"healthStatus"`
	DiseaseName        string              `json:"diseaseName,omitempty"`
	Confidence         float64             `json:"confidence"`
	Treatments         []string            `json:"treatments"`
	Description        string              `json:"description"`
	YouTubeSuggestions []YouTubeSuggestion `json:"youtubeSuggestions"`
}

// TreatmentSearchURL is the generic "how to treat" search shown below the
// suggested videos. It uses the disease name when one was reported.
func (a PlantAnalysis) TreatmentSearchURL() string {
	subject := a.DiseaseName
	if subject == "" {
		subject = a.PlantName
	}
	return youtubeSearch("how to treat " + subject)
}

type ScanHistoryItem struct {
	ID           string       `json:"id"`
	Date         string       `json:"date"`
	ImageURL     string       `json:"imageUrl"`
	PlantName    string       `json:"plantName"`
	HealthStatus HealthStatus `json:"healthStatus"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LocationAnalysis struct {
	LocationName          string       `json:"locationName"`
	SuitabilityScore      float64      `json:"suitabilityScore"`
	IsSuitableForPlanting bool         `json:"isSuitableForPlanting"`
	ClimateZone           string       `json:"climateZone"`
	SoilType              string       `json:"soilType"`
	BestCrops             []string     `json:"bestCrops"`
	Reasoning             string       `json:"reasoning"`
	Coordinates           *Coordinates `json:"coordinates,omitempty"`
}

// MapsURL opens the searched place in Google Maps.
func MapsURL(query string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

type Category string

const (
	Seeds      Category = "Seeds"
	Plants     Category = "Plants"
	Tools      Category = "Tools"
	Fertilizer Category = "Fertilizer"
)

// Categories lists the sellable categories in display order.
var Categories = []Category{Seeds, Plants, Tools, Fertilizer}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type MarketItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Category Category `json:"category"`
	Image    string   `json:"image"`
	Location string   `json:"location"`
	Seller   string   `json:"seller"`
	Rating   float64  `json:"rating"`
}

func youtubeSearch(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}
