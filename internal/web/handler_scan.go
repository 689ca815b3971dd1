package web

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/vbonduro/plantscan/internal/domain"
	"github.com/vbonduro/plantscan/internal/photostore"
	"github.com/vbonduro/plantscan/internal/prompt"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// A data URL carries base64 (4/3 of the raw size) plus a short header.
const maxDataURLBody = maxPhotoSize/3*4 + 1024

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	detected := http.DetectContentType(data)
	if allowedImageTypes[detected] {
		return detected, true
	}
	return "", false
}

var (
	errNoImage          = errors.New("image file required")
	errUnsupportedImage = errors.New("unsupported image format")
)

// readImage extracts the uploaded image from either a multipart form field
// named "image" or a JSON body {"image": "<data url>"}. The declared type is
// ignored in favour of the sniffed one.
func (s *Server) readImage(w http.ResponseWriter, r *http.Request) (prompt.Image, error) {
	var data []byte

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req struct {
			Image string `json:"image"`
		}
		if err := decodeJSON(w, r, maxDataURLBody, &req); err != nil {
			return prompt.Image{}, errNoImage
		}
		img, err := prompt.ImageFromDataURL(req.Image)
		if err != nil {
			return prompt.Image{}, errUnsupportedImage
		}
		data = img.Data
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)
		if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
			return prompt.Image{}, errNoImage
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return prompt.Image{}, errNoImage
		}
		defer closeWithLog(file, "upload file", s.logger)

		if data, err = io.ReadAll(file); err != nil {
			return prompt.Image{}, err
		}
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return prompt.Image{}, errUnsupportedImage
	}
	return prompt.Image{Data: data, MIMEType: mimeType}, nil
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	img, err := s.readImage(w, r)
	switch {
	case errors.Is(err, errNoImage), errors.Is(err, errUnsupportedImage):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("read upload failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}

	// Use a detached context so that the analysis runs to completion even if
	// the client navigates away and the request context is cancelled.
	out, err := s.service.Scan(context.WithoutCancel(r.Context()), img)
	if err != nil {
		s.writeServiceError(w, "scan", err)
		return
	}

	s.writeJSON(w, http.StatusOK, struct {
		*resultResponse
		Item     domain.ScanHistoryItem `json:"item"`
		Fallback bool                   `json:"fallback"`
	}{
		resultResponse: newResultResponse(out.Analysis, out.Item.ImageURL),
		Item:           out.Item,
		Fallback:       out.Fallback,
	})
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	reader, mimeType, err := s.photoStore.Get(r.Context(), r.PathValue("key"))
	if errors.Is(err, photostore.ErrNotFound) || errors.Is(err, photostore.ErrInvalidKey) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("get photo failed", "key", r.PathValue("key"), "error", err)
		http.Error(w, "failed to read photo", http.StatusInternalServerError)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400, immutable")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "key", r.PathValue("key"), "error", err)
	}
}
