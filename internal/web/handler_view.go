package web

import (
	"net/http"

	"github.com/vbonduro/plantscan/internal/domain"
	"github.com/vbonduro/plantscan/internal/state"
)

type resultResponse struct {
	Analysis           domain.PlantAnalysis `json:"analysis"`
	ImageURL           string               `json:"imageUrl"`
	TreatmentSearchURL string               `json:"treatmentSearchUrl"`
	VideoURLs          []string             `json:"videoUrls"`
}

type viewResponse struct {
	View   string          `json:"view"`
	Result *resultResponse `json:"result,omitempty"`
}

func newResultResponse(analysis domain.PlantAnalysis, imageURL string) *resultResponse {
	videos := make([]string, 0, len(analysis.YouTubeSuggestions))
	for _, v := range analysis.YouTubeSuggestions {
		videos = append(videos, v.SearchURL())
	}
	return &resultResponse{
		Analysis:           analysis,
		ImageURL:           imageURL,
		TreatmentSearchURL: analysis.TreatmentSearchURL(),
		VideoURLs:          videos,
	}
}

func newViewResponse(v state.View) viewResponse {
	resp := viewResponse{View: v.Name()}
	if res, ok := v.(state.Result); ok {
		resp.Result = newResultResponse(res.Analysis, res.ImageURL)
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, newViewResponse(s.service.View()))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if err := decodeJSON(w, r, 1<<10, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.Navigate(req.View); err != nil {
		s.writeServiceError(w, "navigate", err)
		return
	}
	s.writeJSON(w, http.StatusOK, newViewResponse(s.service.View()))
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.service.Dismiss()
	s.writeJSON(w, http.StatusOK, newViewResponse(s.service.View()))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Dashboard(r.Context()))
}
