package inference

import (
	"image"
	"log"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/bio-vision-lab/bacteria-detect/detect"
)

// DNNDetector runs the model through the OpenCV DNN module.
type DNNDetector struct {
	config Config
	net    gocv.Net
	mu     sync.Mutex
	closed bool
}

// NewDNNDetector creates an OpenCV-backed detector from an ONNX model file.
//
// Arguments:
//   - config: The backend configuration.
//
// Returns:
//   - *DNNDetector: The initialized detector.
//   - error: An error if the model cannot be loaded.
func NewDNNDetector(config Config) (*DNNDetector, error) {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, errors.Errorf("model file not found: %s", config.ModelPath)
	}

	net := gocv.ReadNetFromONNX(config.ModelPath)
	if net.Empty() {
		return nil, errors.Errorf("failed to load ONNX model: %s", config.ModelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendOpenCV); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "setting DNN backend")
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "setting DNN target")
	}

	log.Printf("✅ OpenCV DNN detector initialized with model: %s", config.ModelPath)

	return &DNNDetector{
		config: config,
		net:    net,
	}, nil
}

// Detect runs inference on the provided image.
func (d *DNNDetector) Detect(img image.Image) ([]detect.BoundingBox, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.net.Empty() {
		return nil, errors.New("model not loaded")
	}

	blob, err := makeInputBlob(img, d.config.InputSize)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	raw, err := flattenOutput(output, 4+d.config.numClasses())
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return ProcessRawOutput(raw, d.config, bounds.Dx(), bounds.Dy()), nil
}

// makeInputBlob converts the image to a normalized NCHW blob. ImageToMatRGB
// returns a BGR-ordered Mat despite its name, so the blob swaps channels to
// match the RGB layout the model was trained on.
func makeInputBlob(img image.Image, size int) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, errors.Wrap(err, "converting image to Mat")
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(size, size),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	return blob, nil
}

// flattenOutput copies a [1, rows, anchors] DNN output into the flat
// row-major layout the shared postprocessor expects.
func flattenOutput(output gocv.Mat, rows int) ([]float32, error) {
	total := output.Total()
	if total == 0 || total%rows != 0 {
		return nil, errors.Errorf("unexpected output tensor size %d for %d rows", total, rows)
	}
	anchors := total / rows

	reshaped := output.Reshape(1, rows)
	defer reshaped.Close()

	raw := make([]float32, total)
	for r := 0; r < rows; r++ {
		for c := 0; c < anchors; c++ {
			raw[r*anchors+c] = reshaped.GetFloatAt(r, c)
		}
	}
	return raw, nil
}

// ModelInfo describes the loaded model.
func (d *DNNDetector) ModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"backend":              string(BackendOpenCV),
		"model_path":           d.config.ModelPath,
		"input_size":           d.config.InputSize,
		"confidence_threshold": d.config.ConfidenceThreshold,
		"nms_threshold":        d.config.NMSThreshold,
		"classes":              d.config.ClassNames,
	}
}

// Close releases the network.
func (d *DNNDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.net.Close()
}
