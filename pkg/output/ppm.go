// Package output writes rendered images to disk or a stream.
package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an image file format
type Format string

const (
	FormatPPM Format = "ppm" // Plain text PPM (P3)
	FormatPNG Format = "png"
)

// ParseFormat accepts "ppm" or "png" in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPPM, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want ppm or png)", s)
}

// FormatForPath picks the format from the file extension, falling back to def
func FormatForPath(path string, def Format) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return def
}

// WritePPM writes img as a plain PPM: a "P3" header, the size, 255, then one
// "R G B" line per pixel starting at the top-left corner
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return fmt.Errorf("write ppm pixel: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ppm: %w", err)
	}
	return nil
}

// Write encodes img in format f
func Write(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPNG:
		return WritePNG(w, img)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// SaveFile writes img to path, creating parent directories as needed
func SaveFile(path string, img image.Image, f Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Write(file, img, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
