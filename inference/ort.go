package inference

import (
	"image"
	"log"
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/bio-vision-lab/bacteria-detect/detect"
)

// ORTDetector runs the model through the onnxruntime library with
// preallocated input and output tensors.
type ORTDetector struct {
	config Config
	input  *ort.Tensor[float32]
	output *ort.Tensor[float32]
	sess   *ort.AdvancedSession

	// The session runs against preallocated tensors, so inference calls
	// must be serialized.
	mu sync.Mutex
}

// NewORTDetector creates an onnxruntime-backed detector.
//
// Order of operations:
//  1. Shared library check: ensures the native runtime is accessible.
//  2. Environment setup: prepares onnxruntime internals (once per process).
//  3. Tensor allocation: fixed-shape input/output buffers for the model.
//  4. Session options: threading and graph optimization level.
//  5. Session creation: loads the model and binds the tensors.
//
// Arguments:
//   - config: The backend configuration.
//
// Returns:
//   - *ORTDetector: The initialized detector.
//   - error: An error if the native runtime or model cannot be loaded.
func NewORTDetector(config Config) (*ORTDetector, error) {
	libPath := config.LibraryPath
	if libPath == "" {
		libPath = SharedLibPath()
	}
	if _, err := os.Stat(libPath); os.IsNotExist(err) {
		return nil, errors.Errorf("onnxruntime library not found at %s", libPath)
	}
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, errors.Errorf("model file not found: %s", config.ModelPath)
	}

	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "initializing ORT environment")
		}
	}

	size := int64(config.InputSize)
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}

	outputShape := ort.NewShape(1, int64(4+config.numClasses()), yoloAnchorSlots)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "creating output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "creating ORT session options")
	}
	defer options.Destroy()

	// A value of 0 uses the default number of threads.
	options.SetIntraOpNumThreads(4)
	options.SetInterOpNumThreads(2)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "creating ORT session")
	}

	log.Printf("✅ onnxruntime detector initialized with model: %s", config.ModelPath)

	return &ORTDetector{
		config: config,
		input:  inputTensor,
		output: outputTensor,
		sess:   session,
	}, nil
}

// Detect runs inference on the provided image.
func (d *ORTDetector) Detect(img image.Image) ([]detect.BoundingBox, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sess == nil {
		return nil, errors.New("model not loaded")
	}

	if err := PrepareInput(img, d.input.GetData(), d.config.InputSize); err != nil {
		return nil, errors.Wrap(err, "preparing input")
	}

	if err := d.sess.Run(); err != nil {
		return nil, errors.Wrap(err, "running inference")
	}

	bounds := img.Bounds()
	return ProcessRawOutput(d.output.GetData(), d.config, bounds.Dx(), bounds.Dy()), nil
}

// ModelInfo describes the loaded model.
func (d *ORTDetector) ModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"backend":              string(BackendONNXRuntime),
		"model_path":           d.config.ModelPath,
		"input_size":           d.config.InputSize,
		"confidence_threshold": d.config.ConfidenceThreshold,
		"nms_threshold":        d.config.NMSThreshold,
		"classes":              d.config.ClassNames,
	}
}

// Close releases the native session and tensors.
func (d *ORTDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.input != nil {
		d.input.Destroy()
		d.input = nil
	}
	if d.output != nil {
		d.output.Destroy()
		d.output = nil
	}
	if d.sess != nil {
		if err := d.sess.Destroy(); err != nil {
			return errors.Wrap(err, "destroying ORT session")
		}
		d.sess = nil
	}
	return nil
}
