// Package inference - Model backends for bacteria detection.
package inference

// Backend selects the inference engine implementation.
type Backend string

const (
	// BackendONNXRuntime runs the model through the onnxruntime library.
	BackendONNXRuntime Backend = "onnxruntime"
	// BackendOpenCV runs the model through the OpenCV DNN module.
	BackendOpenCV Backend = "opencv"
)

// Config for a detection backend.
type Config struct {
	// ModelPath is the path to the exported ONNX model file.
	ModelPath string

	// InputSize is the square model input resolution (e.g. 640).
	InputSize int

	// ConfidenceThreshold filters detections below this confidence level.
	ConfidenceThreshold float32

	// NMSThreshold controls the Non-Maximum Suppression IoU threshold.
	NMSThreshold float32

	// ClassNames lists labels ordered by model output index.
	ClassNames []string

	// LibraryPath overrides the onnxruntime shared library location.
	// Ignored by the OpenCV backend.
	LibraryPath string
}

// DefaultConfig returns a configuration matching the shipped single-class
// YOLOv8 bacteria model.
func DefaultConfig() Config {
	return Config{
		ModelPath:           "bacteria_detector_final_n.onnx",
		InputSize:           640,
		ConfidenceThreshold: 0.25,
		NMSThreshold:        0.45,
		ClassNames:          []string{"bacteria"},
	}
}

// numClasses returns the class count, defaulting to one.
func (c Config) numClasses() int {
	if len(c.ClassNames) == 0 {
		return 1
	}
	return len(c.ClassNames)
}
