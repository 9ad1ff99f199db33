package web

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// decodeJSON decodes the request body into v. Fields that v does not
// declare are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field") {
			return apperrors.Validation("body", "%s", strings.TrimPrefix(msg, "json: "))
		}
		return apperrors.Validation("body", "invalid request body: %v", err)
	}
	return nil
}

// idParam parses the named URL parameter as a positive integer id.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.Validation(name, "invalid id %q", raw)
	}
	return id, nil
}

type multipartFile struct {
	multipart.File
	Name string
	Size int64
}

// formFile opens the multipart file field named "file". The caller closes
// the returned file.
func formFile(w http.ResponseWriter, r *http.Request, maxSize int64) (*multipartFile, error) {
	if maxSize <= 0 {
		maxSize = 32 << 20
	}
	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, apperrors.Validation("file", "no file provided")
		}
		return nil, apperrors.Validation("file", "invalid multipart body: %v", err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, apperrors.Validation("file", "no file provided")
	}
	return &multipartFile{File: f, Name: hdr.Filename, Size: hdr.Size}, nil
}
