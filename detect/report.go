package detect

import "math"

// Detection is one reported object instance, scaled to the uploaded image's
// pixel space. All numeric fields are rounded to two decimals.
type Detection struct {
	// ID is 1-based in result order.
	ID int `json:"id"`
	// Bbox holds the corner coordinates [x1, y1, x2, y2].
	Bbox [4]float64 `json:"bbox"`
	// Confidence score in [0, 1].
	Confidence float64 `json:"confidence"`
	// Derived geometry.
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// ImageInfo describes the uploaded file the report was produced from.
type ImageInfo struct {
	Filename  string `json:"filename"`
	SizeBytes int    `json:"size_bytes"`
}

// Report is the full response body of a detection call.
type Report struct {
	BacteriaCount int         `json:"bacteria_count"`
	Detections    []Detection `json:"detections"`
	ImageInfo     ImageInfo   `json:"image_info"`
	Summary       *Summary    `json:"summary,omitempty"`
}

// BuildReport shapes raw bounding boxes into the response report.
//
// Boxes are clamped to the image bounds and zero-area boxes are dropped, so
// every reported bbox satisfies x2 > x1 and y2 > y1. BacteriaCount always
// equals len(Detections).
//
// Arguments:
//   - filename: The uploaded file's declared name.
//   - sizeBytes: The uploaded file's byte size.
//   - width: The decoded image width in pixels.
//   - height: The decoded image height in pixels.
//   - boxes: Raw detections from the model backend.
//
// Returns:
//   - *Report: The shaped, JSON-ready report.
func BuildReport(filename string, sizeBytes, width, height int, boxes []BoundingBox) *Report {
	detections := make([]Detection, 0, len(boxes))
	kept := make([]BoundingBox, 0, len(boxes))

	for _, box := range boxes {
		box.Clamp(width, height)
		if box.Empty() {
			continue
		}
		kept = append(kept, box)

		x1 := float64(box.X1)
		y1 := float64(box.Y1)
		x2 := float64(box.X2)
		y2 := float64(box.Y2)

		detections = append(detections, Detection{
			ID:         len(detections) + 1,
			Bbox:       [4]float64{round2(x1), round2(y1), round2(x2), round2(y2)},
			Confidence: round2(float64(box.Confidence)),
			CenterX:    round2((x1 + x2) / 2),
			CenterY:    round2((y1 + y2) / 2),
			Width:      round2(x2 - x1),
			Height:     round2(y2 - y1),
		})
	}

	return &Report{
		BacteriaCount: len(detections),
		Detections:    detections,
		ImageInfo: ImageInfo{
			Filename:  filename,
			SizeBytes: sizeBytes,
		},
		Summary: Summarize(kept, width, height),
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
