package visual

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Page rasters arrive in whatever format the PDF embedded.
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

const (
	// binarizeThreshold separates ink from background on the grayscale page.
	binarizeThreshold = 140

	// minRasterWidth is the narrowest raster handed to the OCR engine as is;
	// anything smaller is upscaled first so thin glyphs survive binarization.
	minRasterWidth = 1000
)

// Preprocess prepares a page raster for OCR: optional upscaling of small
// rasters, grayscale conversion, threshold binarization at 140, and
// inversion. The result is a two-tone image with light text on a dark
// background, the form the engine recognizes best.
func Preprocess(src image.Image) image.Image {
	src = upscale(src)

	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			// ITU-R BT.601 luma, on 16-bit channel values.
			luma := (299*r + 587*g + 114*b) / 1000 >> 8
			if luma < binarizeThreshold {
				dst.Pix[dst.PixOffset(x, y)] = 255 // ink, inverted to white
			} else {
				dst.Pix[dst.PixOffset(x, y)] = 0
			}
		}
	}
	return dst
}

// upscale enlarges rasters narrower than minRasterWidth, preserving aspect
// ratio.
func upscale(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() >= minRasterWidth || bounds.Dx() == 0 {
		return src
	}
	scale := float64(minRasterWidth) / float64(bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, minRasterWidth, int(float64(bounds.Dy())*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

// preprocessEncoded decodes an embedded page raster (PNG, JPEG, or TIFF),
// preprocesses it, and re-encodes it as PNG for the OCR engine.
func preprocessEncoded(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode page raster: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Preprocess(img)); err != nil {
		return nil, fmt.Errorf("encode preprocessed raster: %w", err)
	}
	return buf.Bytes(), nil
}
