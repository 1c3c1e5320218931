package inference

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("tensorrt", testConfig())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown inference backend")
}

func TestNewORTDetectorMissingLibrary(t *testing.T) {
	cfg := testConfig()
	cfg.LibraryPath = filepath.Join(t.TempDir(), "libonnxruntime.so")

	_, err := NewORTDetector(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "onnxruntime library not found")
}

func TestNewDNNDetectorMissingModel(t *testing.T) {
	cfg := testConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")

	_, err := NewDNNDetector(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model file not found")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 640, cfg.InputSize)
	assert.Equal(t, []string{"bacteria"}, cfg.ClassNames)
	assert.Equal(t, 1, cfg.numClasses())

	cfg.ClassNames = nil
	assert.Equal(t, 1, cfg.numClasses(), "class count defaults to one")
}
