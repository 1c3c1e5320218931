package inference

import (
	"sort"

	"github.com/bio-vision-lab/bacteria-detect/detect"
)

// yoloAnchorSlots is the anchor count of a 640x640 YOLOv8 export.
const yoloAnchorSlots = 8400

// ProcessRawOutput decodes a YOLOv8 output tensor into bounding boxes.
//
// The tensor layout is [4+numClasses][anchors] in row-major order: four box
// rows (center x, center y, width, height in input-resolution pixels)
// followed by one confidence row per class. Boxes are scaled to the original
// image dimensions, filtered by confidence, and deduplicated with greedy
// IoU-based non-max suppression.
//
// Arguments:
//   - output: The flat output tensor data.
//   - cfg: Backend configuration (thresholds, input size, class names).
//   - originalWidth: The source image width in pixels.
//   - originalHeight: The source image height in pixels.
//
// Returns:
//   - []detect.BoundingBox: Detections ordered by descending confidence.
func ProcessRawOutput(output []float32, cfg Config, originalWidth, originalHeight int) []detect.BoundingBox {
	numClasses := cfg.numClasses()
	rows := 4 + numClasses
	if len(output) < rows {
		return nil
	}
	anchors := len(output) / rows

	boundingBoxes := make([]detect.BoundingBox, 0, 64)
	inputSize := float32(cfg.InputSize)

	for idx := 0; idx < anchors; idx++ {
		// Find the class with the highest confidence for this anchor.
		classID := 0
		confidence := output[4*anchors+idx]
		for col := 1; col < numClasses; col++ {
			current := output[(col+4)*anchors+idx]
			if current > confidence {
				confidence = current
				classID = col
			}
		}

		if confidence < cfg.ConfidenceThreshold {
			continue
		}

		// Convert center/size to corner coordinates in the original image space.
		xc, yc := output[idx], output[anchors+idx]
		w, h := output[2*anchors+idx], output[3*anchors+idx]
		x1 := (xc - w/2) / inputSize * float32(originalWidth)
		y1 := (yc - h/2) / inputSize * float32(originalHeight)
		x2 := (xc + w/2) / inputSize * float32(originalWidth)
		y2 := (yc + h/2) / inputSize * float32(originalHeight)

		boundingBoxes = append(boundingBoxes, detect.BoundingBox{
			Label:      detect.ClassName(cfg.ClassNames, classID),
			Confidence: confidence,
			X1:         x1,
			Y1:         y1,
			X2:         x2,
			Y2:         y2,
		})
	}

	// Sort by descending confidence so suppression keeps the strongest box.
	sort.Slice(boundingBoxes, func(i, j int) bool {
		return boundingBoxes[i].Confidence > boundingBoxes[j].Confidence
	})

	// Greedy NMS: drop candidates overlapping an already kept box.
	mergedResults := make([]detect.BoundingBox, 0, len(boundingBoxes))
	for _, candidateBox := range boundingBoxes {
		overlapsExistingBox := false
		for i := range mergedResults {
			if candidateBox.IOU(&mergedResults[i]) > cfg.NMSThreshold {
				overlapsExistingBox = true
				break
			}
		}
		if !overlapsExistingBox {
			mergedResults = append(mergedResults, candidateBox)
		}
	}

	return mergedResults
}
