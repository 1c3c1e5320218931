package inference

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// PrepareInput fills a CHW float32 tensor buffer from an image, resizing to
// the square model input resolution. Pixels are scaled to [0, 1].
//
// Arguments:
//   - img: The image to prepare.
//   - dst: The destination buffer; must hold at least 3*size*size floats.
//   - size: The square input resolution.
//
// Returns:
//   - error: An error if the destination buffer is too small.
func PrepareInput(img image.Image, dst []float32, size int) error {
	channelSize := size * size
	if len(dst) < channelSize*3 {
		return errors.Errorf("destination tensor only holds %d floats, needs %d (make sure it's the right shape)",
			len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	// Resize to the model input resolution using the Lanczos3 algorithm.
	img = resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
