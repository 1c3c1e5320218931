// Package images - Upload validation and decoding for microscopy images.
package images

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// allowedExtensions are the upload extensions the service accepts.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ErrNoFilename is returned when an upload carries no filename.
var ErrNoFilename = errors.New("no filename provided")

// ValidateFilename checks that an uploaded file's name is present and has a
// recognized image extension. The extension check is case-insensitive.
//
// Arguments:
//   - filename: The declared filename of the upload.
//
// Returns:
//   - error: ErrNoFilename or an unsupported-type error; nil when valid.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrNoFilename
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return errors.Errorf("unsupported file type: %q, allowed: %v", ext, AllowedExtensions())
	}
	return nil
}

// AllowedExtensions returns the accepted extensions in stable order, for
// error messages and the info endpoint.
func AllowedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif"}
}
