package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anchorDet describes one synthetic model output slot.
type anchorDet struct {
	xc, yc, w, h float32
	class        int
	conf         float32
}

// buildOutput lays out synthetic detections in the row-major
// [4+numClasses][anchors] tensor format produced by YOLOv8 exports.
func buildOutput(anchors, numClasses int, dets []anchorDet) []float32 {
	rows := 4 + numClasses
	out := make([]float32, rows*anchors)
	for i, d := range dets {
		out[i] = d.xc
		out[anchors+i] = d.yc
		out[2*anchors+i] = d.w
		out[3*anchors+i] = d.h
		out[(4+d.class)*anchors+i] = d.conf
	}
	return out
}

func testConfig() Config {
	return Config{
		ModelPath:           "test.onnx",
		InputSize:           640,
		ConfidenceThreshold: 0.25,
		NMSThreshold:        0.45,
		ClassNames:          []string{"bacteria"},
	}
}

func TestProcessRawOutputSingleDetection(t *testing.T) {
	output := buildOutput(16, 1, []anchorDet{
		{xc: 320, yc: 320, w: 64, h: 64, conf: 0.9},
	})

	boxes := ProcessRawOutput(output, testConfig(), 640, 640)
	require.Len(t, boxes, 1)

	assert.Equal(t, "bacteria", boxes[0].Label)
	assert.InDelta(t, 0.9, boxes[0].Confidence, 1e-6)
	assert.InDelta(t, 288, boxes[0].X1, 0.01)
	assert.InDelta(t, 288, boxes[0].Y1, 0.01)
	assert.InDelta(t, 352, boxes[0].X2, 0.01)
	assert.InDelta(t, 352, boxes[0].Y2, 0.01)
}

func TestProcessRawOutputScalesToOriginalSize(t *testing.T) {
	output := buildOutput(16, 1, []anchorDet{
		{xc: 320, yc: 320, w: 64, h: 64, conf: 0.9},
	})

	boxes := ProcessRawOutput(output, testConfig(), 1280, 960)
	require.Len(t, boxes, 1)

	assert.InDelta(t, 576, boxes[0].X1, 0.01)
	assert.InDelta(t, 432, boxes[0].Y1, 0.01)
	assert.InDelta(t, 704, boxes[0].X2, 0.01)
	assert.InDelta(t, 528, boxes[0].Y2, 0.01)
}

func TestProcessRawOutputConfidenceFilter(t *testing.T) {
	output := buildOutput(16, 1, []anchorDet{
		{xc: 100, yc: 100, w: 40, h: 40, conf: 0.2},
		{xc: 300, yc: 300, w: 40, h: 40, conf: 0.3},
	})

	boxes := ProcessRawOutput(output, testConfig(), 640, 640)
	require.Len(t, boxes, 1)
	assert.InDelta(t, 0.3, boxes[0].Confidence, 1e-6)
}

func TestProcessRawOutputNMSSuppressesDuplicates(t *testing.T) {
	// Two anchors predicting nearly the same box; the stronger one wins.
	output := buildOutput(16, 1, []anchorDet{
		{xc: 320, yc: 320, w: 64, h: 64, conf: 0.8},
		{xc: 322, yc: 321, w: 64, h: 64, conf: 0.9},
	})

	boxes := ProcessRawOutput(output, testConfig(), 640, 640)
	require.Len(t, boxes, 1)
	assert.InDelta(t, 0.9, boxes[0].Confidence, 1e-6)
}

func TestProcessRawOutputOrderedByConfidence(t *testing.T) {
	output := buildOutput(16, 1, []anchorDet{
		{xc: 100, yc: 100, w: 40, h: 40, conf: 0.6},
		{xc: 400, yc: 400, w: 40, h: 40, conf: 0.95},
		{xc: 250, yc: 250, w: 40, h: 40, conf: 0.7},
	})

	boxes := ProcessRawOutput(output, testConfig(), 640, 640)
	require.Len(t, boxes, 3)
	assert.True(t, boxes[0].Confidence >= boxes[1].Confidence)
	assert.True(t, boxes[1].Confidence >= boxes[2].Confidence)
}

func TestProcessRawOutputMultiClass(t *testing.T) {
	cfg := testConfig()
	cfg.ClassNames = []string{"coccus", "rod"}

	output := buildOutput(16, 2, []anchorDet{
		{xc: 320, yc: 320, w: 64, h: 64, class: 1, conf: 0.85},
	})

	boxes := ProcessRawOutput(output, cfg, 640, 640)
	require.Len(t, boxes, 1)
	assert.Equal(t, "rod", boxes[0].Label)
}

func TestProcessRawOutputDeterministic(t *testing.T) {
	output := buildOutput(32, 1, []anchorDet{
		{xc: 100, yc: 100, w: 40, h: 40, conf: 0.6},
		{xc: 105, yc: 102, w: 42, h: 38, conf: 0.55},
		{xc: 400, yc: 400, w: 40, h: 40, conf: 0.95},
	})

	first := ProcessRawOutput(output, testConfig(), 640, 640)
	second := ProcessRawOutput(output, testConfig(), 640, 640)
	assert.Equal(t, first, second)
}

func TestProcessRawOutputEmpty(t *testing.T) {
	assert.Empty(t, ProcessRawOutput(nil, testConfig(), 640, 640))
	assert.Empty(t, ProcessRawOutput(buildOutput(16, 1, nil), testConfig(), 640, 640))
}

func BenchmarkProcessRawOutput(b *testing.B) {
	dets := make([]anchorDet, 0, 200)
	for i := 0; i < 200; i++ {
		dets = append(dets, anchorDet{
			xc:   float32(20 + (i%40)*15),
			yc:   float32(20 + (i/40)*120),
			w:    24,
			h:    24,
			conf: 0.3 + float32(i%60)/100,
		})
	}
	output := buildOutput(8400, 1, dets)
	cfg := testConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ProcessRawOutput(output, cfg, 1920, 1080)
	}
}
