package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vbonduro/plantscan/internal/photostore"
)

// extensions maps the accepted image types to the suffix stored on disk.
// Anything else is kept as JPEG, the type the vision backends assume.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DirStore keeps photos as files in one flat directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Save writes r under a new key of the form prefix_<uuid><ext>. The data is
// staged in a temporary file and renamed into place, so a reader never sees
// a partial photo.
func (s *DirStore) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate photo key: %w", err)
	}
	ext, ok := extensions[mimeType]
	if !ok {
		ext = extensions["image/jpeg"]
	}
	key := prefix + "_" + id.String() + ext

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rerr := os.Remove(tmp.Name()); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			slog.Error("failed to remove staged photo", "path", tmp.Name(), "error", rerr)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		if cerr := tmp.Close(); cerr != nil {
			slog.Error("failed to close staged photo", "error", cerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	committed = true
	return key, nil
}

func (s *DirStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	path, err := s.path(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, "", photostore.ErrNotFound
	case err != nil:
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	return f, mimeTypeOf(storageKey), nil
}

func (s *DirStore) Delete(ctx context.Context, storageKey string) error {
	path, err := s.path(storageKey)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return photostore.ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// path resolves a key inside the store directory. Keys are bare file names;
// separators, parent references and staged uploads are refused.
func (s *DirStore) path(storageKey string) (string, error) {
	if !filepath.IsLocal(storageKey) ||
		strings.ContainsAny(storageKey, `/\`) ||
		strings.HasPrefix(storageKey, ".") {
		return "", fmt.Errorf("%w: %q", photostore.ErrInvalidKey, storageKey)
	}
	return filepath.Join(s.dir, storageKey), nil
}

func mimeTypeOf(storageKey string) string {
	ext := strings.ToLower(filepath.Ext(storageKey))
	for mimeType, known := range extensions {
		if ext == known {
			return mimeType
		}
	}
	return "image/jpeg"
}
