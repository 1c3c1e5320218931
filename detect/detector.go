// Package detect - Detection results and report shaping.
package detect

import "image"

// Detector runs object detection over a decoded image.
//
// Implementations hold the loaded model and are shared across concurrent
// requests; they must be safe for concurrent use.
type Detector interface {
	// Detect returns the detected objects in the image, already scaled to
	// the image's pixel coordinates and filtered by confidence and NMS.
	Detect(img image.Image) ([]BoundingBox, error)

	// ModelInfo describes the loaded model for diagnostics.
	ModelInfo() map[string]interface{}

	// Close releases native resources held by the backend.
	Close() error
}
