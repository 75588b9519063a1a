package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Frame is a decoded image flattened into the raw RGBA buffer the chroma
// engine consumes: 4 bytes per pixel, row-major, top to bottom.
type Frame struct {
	Pixels []byte
	Width  int
	Height int
}

// ToFrame renders any image.Image into a Frame.
//
// The conversion goes through an NRGBA copy, so 16-bit and YCbCr sources
// are reduced to 8-bit non-premultiplied RGBA. Alpha is preserved in the
// buffer but the detection engine ignores it.
func ToFrame(img image.Image) Frame {
	nrgba := imaging.Clone(img)
	return Frame{
		Pixels: nrgba.Pix,
		Width:  nrgba.Bounds().Dx(),
		Height: nrgba.Bounds().Dy(),
	}
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the
// bottom-right corner (exclusive), matching standard image bounds.
type Region struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// CropFrame renders a rectangular region of an image into a Frame.
//
// The region must be non-empty and lie within the image bounds.
func CropFrame(img image.Image, r Region) (Frame, error) {
	bounds := img.Bounds()
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return Frame{}, fmt.Errorf("invalid region: x1 must be < x2 and y1 < y2")
	}
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return Frame{}, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	cropped := imaging.Crop(img, image.Rect(r.X1, r.Y1, r.X2, r.Y2))
	return ToFrame(cropped), nil
}

// FitWithin downscales an image so neither dimension exceeds maxDimension,
// preserving aspect ratio. Images already within the limit (and
// non-positive limits) are returned unchanged.
//
// Detection only needs the color distribution, not fine detail, so
// nearest-neighbor sampling is used: it is the cheapest filter and, unlike
// interpolating filters, introduces no colors that were not in the source.
func FitWithin(img image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return img
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}

	if w >= h {
		h = h * maxDimension / w
		w = maxDimension
	} else {
		w = w * maxDimension / h
		h = maxDimension
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	return transform.Resize(img, w, h, transform.NearestNeighbor)
}
