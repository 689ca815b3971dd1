package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vbonduro/plantscan/internal/domain"
	"github.com/vbonduro/plantscan/internal/service"
)

var (
	green = lipgloss.Color("#4CAF50")
	red   = lipgloss.Color("#E53935")
	amber = lipgloss.Color("#FFB300")
	grey  = lipgloss.Color("#8A8F98")

	titleStyle    = lipgloss.NewStyle().Bold(true)
	healthyStyle  = lipgloss.NewStyle().Foreground(green).Bold(true)
	diseasedStyle = lipgloss.NewStyle().Foreground(red).Bold(true)
	unknownStyle  = lipgloss.NewStyle().Foreground(amber).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(grey)
	errStyle      = lipgloss.NewStyle().Foreground(red)
)

func statusStyle(s domain.HealthStatus) lipgloss.Style {
	switch s {
	case domain.Healthy:
		return healthyStyle
	case domain.Diseased:
		return diseasedStyle
	default:
		return unknownStyle
	}
}

func renderAnalysis(source string, outcome service.ScanOutcome) string {
	a := outcome.Analysis
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(a.PlantName), mutedStyle.Render(a.ScientificName))
	status := string(a.HealthStatus)
	if a.DiseaseName != "" {
		status += " (" + a.DiseaseName + ")"
	}
	fmt.Fprintf(&b, "%s  %s\n", statusStyle(a.HealthStatus).Render(status),
		mutedStyle.Render(fmt.Sprintf("%.0f%% confidence", a.Confidence)))
	if a.Description != "" {
		fmt.Fprintf(&b, "%s\n", a.Description)
	}

	if len(a.Treatments) > 0 {
		fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("Treatment"))
		for i, t := range a.Treatments {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, t)
		}
	}

	if len(a.YouTubeSuggestions) > 0 {
		fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("Videos"))
		for _, v := range a.YouTubeSuggestions {
			fmt.Fprintf(&b, "  %s %s\n", v.Title, mutedStyle.Render("("+v.ChannelName+")"))
			fmt.Fprintf(&b, "    %s\n", v.SearchURL())
		}
	}
	fmt.Fprintf(&b, "\n%s %s\n", mutedStyle.Render("More:"), a.TreatmentSearchURL())

	footer := fmt.Sprintf("%s  saved as %s", source, outcome.Item.ID)
	if outcome.Fallback {
		footer += "  (analysis unavailable)"
	}
	b.WriteString(mutedStyle.Render(footer))
	return b.String()
}

func renderLocation(outcome service.LocationOutcome) string {
	a := outcome.Analysis
	var b strings.Builder

	verdict := healthyStyle.Render("Suitable for planting")
	if !a.IsSuitableForPlanting {
		verdict = diseasedStyle.Render("Not suitable for planting")
	}
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(a.LocationName), verdict)
	fmt.Fprintf(&b, "Score: %.0f/100\n", a.SuitabilityScore)
	fmt.Fprintf(&b, "Climate: %s\n", a.ClimateZone)
	fmt.Fprintf(&b, "Soil: %s\n", a.SoilType)
	if len(a.BestCrops) > 0 {
		fmt.Fprintf(&b, "Best crops: %s\n", strings.Join(a.BestCrops, ", "))
	}
	if a.Coordinates != nil {
		fmt.Fprintf(&b, "Coordinates: %.4f, %.4f\n", a.Coordinates.Lat, a.Coordinates.Lng)
	}
	if a.Reasoning != "" {
		fmt.Fprintf(&b, "\n%s\n", a.Reasoning)
	}
	b.WriteString(mutedStyle.Render(outcome.MapsURL))
	return b.String()
}

func renderHistory(items []domain.ScanHistoryItem) string {
	if len(items) == 0 {
		return mutedStyle.Render("no scans yet")
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s  %-20s %s  %s",
			mutedStyle.Render(item.Date),
			item.PlantName,
			statusStyle(item.HealthStatus).Render(string(item.HealthStatus)),
			mutedStyle.Render(item.ID))
	}
	return strings.Join(lines, "\n")
}

func renderMarket(items []domain.MarketItem) string {
	if len(items) == 0 {
		return mutedStyle.Render("no listings match")
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%-24s %8s  %-10s %s",
			titleStyle.Render(item.Name),
			item.Price,
			string(item.Category),
			mutedStyle.Render(fmt.Sprintf("%s, %s, %.1f", item.Location, item.Seller, item.Rating)))
	}
	return strings.Join(lines, "\n")
}
