package core

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// ErrFileTooLarge is returned when an import file exceeds the configured size.
var ErrFileTooLarge = &apperrors.ValidationError{Field: "file", Message: "file too large"}

// ReadImportText reads an uploaded CSV file into memory. Invalid UTF-8
// sequences become U+FFFD so a stray byte from a legacy export only damages
// the cell it sits in. maxSize <= 0 disables the size check.
func ReadImportText(r io.Reader, maxSize int64) (string, error) {
	src := r
	if maxSize > 0 {
		src = io.LimitReader(r, maxSize+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read import file: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", ErrFileTooLarge
	}

	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}
