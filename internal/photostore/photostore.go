// Package photostore saves captured plant photos and listing images and
// serves them back under URLPrefix.
package photostore

import (
	"context"
	"errors"
	"io"
	"strings"
)

// URLPrefix is the path photos are served from.
const URLPrefix = "/photos/"

var (
	ErrNotFound   = errors.New("photo not found")
	ErrInvalidKey = errors.New("invalid photo key")
)

type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

// URL is the public path for storageKey.
func URL(storageKey string) string {
	return URLPrefix + storageKey
}

// KeyFromURL reverses URL. ok is false for images hosted elsewhere, such as
// the seed history thumbnails.
func KeyFromURL(url string) (storageKey string, ok bool) {
	key, found := strings.CutPrefix(url, URLPrefix)
	if !found || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}
