package inference

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bio-vision-lab/bacteria-detect/images"
	"github.com/bio-vision-lab/bacteria-detect/util"
)

const sampleImageDir = "testdata/samples"

// skipWithoutModel skips a test when the model artifact or the native
// onnxruntime library is not present on the machine.
func skipWithoutModel(t *testing.T, cfg Config) {
	t.Helper()
	if _, err := os.Stat(SharedLibPath()); os.IsNotExist(err) {
		t.Skip("ONNX Runtime library not found, skipping inference test")
	}
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		t.Skipf("model %s not found, skipping inference test", cfg.ModelPath)
	}
}

func TestORTDetectorOnSampleImages(t *testing.T) {
	cfg := DefaultConfig()
	skipWithoutModel(t, cfg)

	detector, err := NewORTDetector(cfg)
	require.NoError(t, err)
	defer detector.Close()

	samples, err := util.LoadDirectoryImageFiles(sampleImageDir)
	if err != nil || len(samples) == 0 {
		t.Skipf("no sample images in %s", sampleImageDir)
	}

	for _, sample := range samples {
		img, _, err := images.Decode(sample.Data)
		require.NoError(t, err, sample.Path)

		boxes, err := detector.Detect(img)
		require.NoError(t, err, sample.Path)

		bounds := img.Bounds()
		for _, box := range boxes {
			assert.GreaterOrEqual(t, box.Confidence, cfg.ConfidenceThreshold, sample.Path)
			assert.Less(t, box.X1, box.X2, sample.Path)
			assert.Less(t, box.Y1, box.Y2, sample.Path)
			assert.LessOrEqual(t, box.X2, float32(bounds.Dx())+1, sample.Path)
			assert.LessOrEqual(t, box.Y2, float32(bounds.Dy())+1, sample.Path)
		}

		// Read-only model state: repeated calls must agree.
		again, err := detector.Detect(img)
		require.NoError(t, err, sample.Path)
		assert.Equal(t, boxes, again, sample.Path)
	}
}
