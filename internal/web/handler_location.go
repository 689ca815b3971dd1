package web

import (
	"context"
	"net/http"
)

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(w, r, 4<<10, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := s.service.SearchLocation(context.WithoutCancel(r.Context()), req.Query)
	if err != nil {
		s.writeServiceError(w, "search location", err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}
