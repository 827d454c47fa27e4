package ocr

import (
	"image"
	"image/color"
	"testing"
)

func TestNormalizeOCRText(t *testing.T) {
	in := "ROYAUME DU MAROC\n\tCNIE   AB123456\n"
	want := "ROYAUME DU MAROC CNIE AB123456"
	if got := normalizeOCRText(in); got != want {
		t.Fatalf("normalizeOCRText = %q, want %q", got, want)
	}
	if got := normalizeOCRText("   "); got != "" {
		t.Fatalf("expected empty output for whitespace, got %q", got)
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short", 10); got != "short" {
		t.Fatalf("snippet left short text alone: %q", got)
	}
	if got := snippet("0123456789abc", 10); got != "0123456789…" {
		t.Fatalf("snippet = %q", got)
	}
}

func TestBinarizeThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	img.Set(1, 0, color.NRGBA{R: 240, G: 240, B: 240, A: 255})
	out := binarize(img, 128)
	dark := out.NRGBAAt(0, 0)
	light := out.NRGBAAt(1, 0)
	if dark.R != 0 || light.R != 255 {
		t.Fatalf("binarize: dark=%d light=%d", dark.R, light.R)
	}
}

func TestPreprocessBoundsLargeImages(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3600, 1200))
	out := preprocess(img)
	b := out.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		t.Fatalf("preprocess left oversized image: %dx%d", b.Dx(), b.Dy())
	}
}
