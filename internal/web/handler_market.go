package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/plantscan/internal/domain"
	"github.com/vbonduro/plantscan/internal/market"
	"github.com/vbonduro/plantscan/internal/prompt"
)

func (s *Server) handleListMarket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.writeJSON(w, http.StatusOK, s.service.Market(q.Get("category"), q.Get("q")))
}

func (s *Server) handlePostListing(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	listing := market.Listing{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Category: domain.Category(r.FormValue("category")),
		Location: r.FormValue("location"),
	}

	var img *prompt.Image
	if r.MultipartForm != nil {
		if file, _, err := r.FormFile("image"); err == nil {
			defer closeWithLog(file, "listing image", s.logger)
			data, err := io.ReadAll(file)
			if err != nil {
				s.logger.Error("read listing image failed", "error", err)
				s.writeError(w, http.StatusInternalServerError, "failed to read image")
				return
			}
			mimeType, ok := allowedImageMIME(data)
			if !ok {
				s.writeError(w, http.StatusBadRequest, errUnsupportedImage.Error())
				return
			}
			img = &prompt.Image{Data: data, MIMEType: mimeType}
		}
	}

	item, err := s.service.PostListing(r.Context(), listing, img)
	if err != nil {
		s.writeServiceError(w, "post listing", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, item)
}
