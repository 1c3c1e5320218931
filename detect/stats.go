package detect

import "math"

// Summary provides statistical analysis of the detections in one image.
//
// Microscopy fields of view can hold anything from a handful of isolated
// cells to dense colonies; these metrics give callers a quick read on
// crowding without re-deriving it from the box list.
type Summary struct {
	// MeanConfidence is the mean detection confidence.
	MeanConfidence float64 `json:"mean_confidence"`

	// MinConfidence is the lowest detection confidence.
	MinConfidence float64 `json:"min_confidence"`

	// MaxConfidence is the highest detection confidence.
	MaxConfidence float64 `json:"max_confidence"`

	// AvgBoxArea is the mean bounding box area in pixels.
	AvgBoxArea float64 `json:"avg_box_area"`

	// SpatialDensity measures objects per 1000 pixels of image area.
	SpatialDensity float64 `json:"spatial_density"`

	// OverlapRatio is the fraction of objects that overlap another object.
	OverlapRatio float64 `json:"overlap_ratio"`
}

// overlapIOUThreshold is the IoU above which two boxes count as overlapping.
const overlapIOUThreshold = 0.1

// Summarize computes density statistics over the kept detections.
//
// Arguments:
//   - boxes: Clamped, non-empty bounding boxes.
//   - width: Image width in pixels.
//   - height: Image height in pixels.
//
// Returns:
//   - *Summary: Nil when there are no detections.
func Summarize(boxes []BoundingBox, width, height int) *Summary {
	if len(boxes) == 0 {
		return nil
	}

	summary := &Summary{
		MinConfidence: float64(boxes[0].Confidence),
		MaxConfidence: float64(boxes[0].Confidence),
	}

	var confidenceSum, areaSum float64
	for i := range boxes {
		confidence := float64(boxes[i].Confidence)
		confidenceSum += confidence
		summary.MinConfidence = math.Min(summary.MinConfidence, confidence)
		summary.MaxConfidence = math.Max(summary.MaxConfidence, confidence)
		areaSum += float64(boxes[i].RectArea())
	}

	summary.MeanConfidence = confidenceSum / float64(len(boxes))
	summary.AvgBoxArea = areaSum / float64(len(boxes))

	frameArea := width * height
	if frameArea > 0 {
		summary.SpatialDensity = float64(len(boxes)) / float64(frameArea) * 1000.0
	}

	summary.OverlapRatio = overlapRatio(boxes)

	summary.MeanConfidence = round2(summary.MeanConfidence)
	summary.MinConfidence = round2(summary.MinConfidence)
	summary.MaxConfidence = round2(summary.MaxConfidence)
	summary.AvgBoxArea = round2(summary.AvgBoxArea)
	summary.SpatialDensity = round2(summary.SpatialDensity)
	summary.OverlapRatio = round2(summary.OverlapRatio)

	return summary
}

// overlapRatio calculates the fraction of boxes overlapping at least one
// other box beyond the IoU threshold.
func overlapRatio(boxes []BoundingBox) float64 {
	if len(boxes) < 2 {
		return 0
	}

	overlapping := make([]bool, len(boxes))
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].IOU(&boxes[j]) > overlapIOUThreshold {
				overlapping[i] = true
				overlapping[j] = true
			}
		}
	}

	count := 0
	for _, o := range overlapping {
		if o {
			count++
		}
	}
	return float64(count) / float64(len(boxes))
}
