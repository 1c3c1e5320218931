package images

import (
	"bytes"
	"image"

	// Register decoders for every accepted upload extension.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/pkg/errors"
)

// Decode parses raw upload bytes into an in-memory image. The returned
// format string is the sniffed codec name (jpeg, png, bmp, tiff), which may
// legitimately differ from the filename extension.
//
// Arguments:
//   - data: The raw bytes of the uploaded file.
//
// Returns:
//   - image.Image: The decoded image.
//   - string: The sniffed format name.
//   - error: An error if the bytes are empty or not a decodable image.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "decoding image")
	}
	return img, format, nil
}
