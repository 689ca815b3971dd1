// Package dashboard assembles the farm overview: weather, the weekly health
// trend and the scan record count.
package dashboard

type Weather struct {
	Location     string `json:"location"`
	TemperatureC int    `json:"temperatureC"`
	Condition    string `json:"condition"`
	HumidityPct  int    `json:"humidityPct"`
	WindKmh      int    `json:"windKmh"`
}

type DayHealth struct {
	Day      string `json:"day"`
	Health   int    `json:"health"`
	Moisture int    `json:"moisture"`
}

type Snapshot struct {
	Weather      Weather     `json:"weather"`
	Week         []DayHealth `json:"week"`
	HistoryCount int         `json:"historyCount"`
}

// Weather and the weekly series are placeholders until a real feed exists.
func New(historyCount int) Snapshot {
	return Snapshot{
		Weather: Weather{
			Location:     "My Farm",
			TemperatureC: 24,
			Condition:    "Mostly Sunny",
			HumidityPct:  62,
			WindKmh:      12,
		},
		Week: []DayHealth{
			{Day: "Mon", Health: 65, Moisture: 40},
			{Day: "Tue", Health: 68, Moisture: 35},
			{Day: "Wed", Health: 75, Moisture: 60},
			{Day: "Thu", Health: 72, Moisture: 55},
			{Day: "Fri", Health: 85, Moisture: 70},
			{Day: "Sat", Health: 82, Moisture: 65},
			{Day: "Sun", Health: 90, Moisture: 80},
		},
		HistoryCount: historyCount,
	}
}
