package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBoxIOU(t *testing.T) {
	a := BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}
	b := BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}
	assert.InDelta(t, 1.0, a.IOU(&b), 0.001, "identical boxes should have IoU 1")

	c := BoundingBox{X1: 200, Y1: 200, X2: 300, Y2: 300}
	assert.Equal(t, float32(0), a.IOU(&c), "disjoint boxes should have IoU 0")

	// Half-overlapping boxes: intersection 50x100, union 15000.
	d := BoundingBox{X1: 50, Y1: 0, X2: 150, Y2: 100}
	assert.InDelta(t, 5000.0/15000.0, a.IOU(&d), 0.001)
}

func TestBoundingBoxClamp(t *testing.T) {
	box := BoundingBox{X1: -10, Y1: -5, X2: 700, Y2: 500}
	box.Clamp(640, 480)

	assert.Equal(t, float32(0), box.X1)
	assert.Equal(t, float32(0), box.Y1)
	assert.Equal(t, float32(640), box.X2)
	assert.Equal(t, float32(480), box.Y2)
	assert.False(t, box.Empty())
}

func TestBoundingBoxClampCanonicalizes(t *testing.T) {
	box := BoundingBox{X1: 50, Y1: 80, X2: 20, Y2: 30}
	box.Clamp(640, 480)

	assert.True(t, box.X1 <= box.X2)
	assert.True(t, box.Y1 <= box.Y2)
}

func TestBoundingBoxEmpty(t *testing.T) {
	box := BoundingBox{X1: 10, Y1: 10, X2: 10, Y2: 50}
	assert.True(t, box.Empty())

	box = BoundingBox{X1: 10, Y1: 10, X2: 11, Y2: 11}
	assert.False(t, box.Empty())
}

func TestBoundingBoxGeometry(t *testing.T) {
	box := BoundingBox{X1: 10, Y1: 20, X2: 40, Y2: 60}
	assert.Equal(t, float32(30), box.Width())
	assert.Equal(t, float32(40), box.Height())
	assert.Equal(t, 30*40, box.RectArea())
}
