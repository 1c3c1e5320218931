package inference

import (
	"github.com/pkg/errors"

	"github.com/bio-vision-lab/bacteria-detect/detect"
)

// New creates the detector for the configured backend.
//
// Arguments:
//   - backend: The engine selection.
//   - config: The backend configuration.
//
// Returns:
//   - detect.Detector: The loaded detector.
//   - error: An error if the backend is unknown or the model fails to load.
func New(backend Backend, config Config) (detect.Detector, error) {
	switch backend {
	case BackendONNXRuntime, "":
		return NewORTDetector(config)
	case BackendOpenCV:
		return NewDNNDetector(config)
	default:
		return nil, errors.Errorf("unknown inference backend: %q", backend)
	}
}
