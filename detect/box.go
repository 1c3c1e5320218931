package detect

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// BoundingBox represents a bounding box with its label, confidence, and coordinates.
type BoundingBox struct {
	Label          string
	Confidence     float32
	X1, Y1, X2, Y2 float32
}

// This won't be entirely precise due to conversion to the integral rectangles
// from the image.Image library, but we're only using it to estimate which
// boxes are overlapping too much, so some imprecision should be OK.
func (b *BoundingBox) IOU(other *BoundingBox) float32 {
	union := b.Union(other)
	if union == 0 {
		return 0
	}
	return b.Intersection(other) / union
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("Object %s (confidence %f): (%f, %f), (%f, %f)",
		b.Label, b.Confidence, b.X1, b.Y1, b.X2, b.Y2)
}

// This loses precision, but recall that the bounding box has already been
// scaled up to the original image's dimensions. So, it will only lose
// fractional pixels around the edges.
func (b *BoundingBox) ToRect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2)).Canon()
}

// Returns the area of b in pixels, after converting to an image.Rectangle.
func (b *BoundingBox) RectArea() int {
	size := b.ToRect().Size()
	return size.X * size.Y
}

func (b *BoundingBox) Intersection(other *BoundingBox) float32 {
	r1 := b.ToRect()
	r2 := other.ToRect()
	intersected := r1.Intersect(r2).Canon().Size()
	return float32(intersected.X * intersected.Y)
}

func (b *BoundingBox) Union(other *BoundingBox) float32 {
	intersectArea := b.Intersection(other)
	totalArea := float32(b.RectArea() + other.RectArea())
	return totalArea - intersectArea
}

// Width returns the box width in pixels.
func (b *BoundingBox) Width() float32 {
	return b.X2 - b.X1
}

// Height returns the box height in pixels.
func (b *BoundingBox) Height() float32 {
	return b.Y2 - b.Y1
}

// Clamp restricts the box coordinates to the given image dimensions.
// Coordinates are also canonicalized so that X1 <= X2 and Y1 <= Y2.
func (b *BoundingBox) Clamp(width, height int) {
	if b.X2 < b.X1 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y2 < b.Y1 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	b.X1 = math32.Max(0, b.X1)
	b.Y1 = math32.Max(0, b.Y1)
	b.X2 = math32.Min(float32(width), b.X2)
	b.Y2 = math32.Min(float32(height), b.Y2)
}

// Empty reports whether the box has no area.
func (b *BoundingBox) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}
