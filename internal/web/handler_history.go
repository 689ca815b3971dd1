package web

import "net/http"

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.History(r.Context()))
}

func (s *Server) handleDeleteHistoryItem(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteHistoryItem(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, "delete history item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.service.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
