package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// WritePNG encodes img as a PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
