package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const maxSide = 1800

// preprocess applies the light cleanup that helps Tesseract on phone photos
// of documents: grayscale, contrast boost, sharpen, bounded resize.
func preprocess(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 20)
	gray = imaging.Sharpen(gray, 0.7)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxSide || h > maxSide {
		if w >= h {
			gray = imaging.Resize(gray, maxSide, 0, imaging.Lanczos)
		} else {
			gray = imaging.Resize(gray, 0, maxSide, imaging.Lanczos)
		}
	}
	return gray
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
