// Package util - Helpers for loading sample images.
package util

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bio-vision-lab/bacteria-detect/images"
)

// ImageFile represents a sample image loaded from disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
}

// LoadDirectoryImageFiles reads all accepted image files from a directory,
// sorted by filename. Files with other extensions are skipped.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []ImageFile: Slice of ImageFile, each containing the raw bytes of an image file.
//   - error: Error if loading fails.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var loaded []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if err := images.ValidateFilename(file.Name()); err != nil {
			continue
		}

		imgPath := filepath.Join(dir, file.Name())
		data, readErr := os.ReadFile(imgPath)
		if readErr != nil {
			return nil, readErr
		}
		loaded = append(loaded, ImageFile{
			Path: imgPath,
			Data: data,
		})
	}

	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].Path < loaded[j].Path
	})

	return loaded, nil
}
