package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "bacteria_detector_final_n.onnx", cfg.ModelPath)
	assert.Equal(t, "onnxruntime", cfg.ModelBackend)
	assert.Equal(t, 0.25, cfg.ConfidenceThreshold)
	assert.Equal(t, 0.45, cfg.NMSThreshold)
	assert.Equal(t, 50, cfg.MaxUploadMB)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_PATH", "/models/custom.onnx")
	t.Setenv("MODEL_BACKEND", "opencv")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.5")
	t.Setenv("MAX_UPLOAD_MB", "10")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/models/custom.onnx", cfg.ModelPath)
	assert.Equal(t, "opencv", cfg.ModelBackend)
	assert.Equal(t, 0.5, cfg.ConfidenceThreshold)
	assert.Equal(t, 10, cfg.MaxUploadMB)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("CONFIDENCE_THRESHOLD", "high")

	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 0.25, cfg.ConfidenceThreshold)
}
