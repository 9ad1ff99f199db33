package insight

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// ImageURLPrefix is the public path under which saved images are served.
const ImageURLPrefix = "/uploads/"

// imageExtensions lists the accepted raster formats. SVG is excluded since
// uploads are served from the application origin and SVG can carry script.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ImageStore writes uploaded teaser and story images to a directory.
type ImageStore struct {
	dir     string
	maxSize int64
}

// NewImageStore returns an ImageStore rooted at dir. maxSize <= 0 means no
// size limit.
func NewImageStore(dir string, maxSize int64) *ImageStore {
	return &ImageStore{dir: dir, maxSize: maxSize}
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save copies r into a uniquely named file and returns its public URL.
// The extension of originalName is kept; names without one default to .jpg.
func (s *ImageStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	if !imageExtensions[ext] {
		return "", apperrors.Validation("file", "unsupported image type %q", ext)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		_ = os.Remove(path)
		return "", apperrors.Validation("file", "image exceeds %d bytes", s.maxSize)
	}

	return ImageURLPrefix + name, nil
}
