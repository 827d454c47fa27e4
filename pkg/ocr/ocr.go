// Package ocr extracts raw text from scanned claim documents. It is a
// collaborator of the validation engine: the engine only ever sees the
// concatenated text this package produces.
package ocr

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ExtractTextFromImage runs two Tesseract passes (preprocessed grayscale and
// binarized) over a document scan and returns the richer text. Moroccan
// claim documents mix French and English wording, so both language models
// are loaded.
func ExtractTextFromImage(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	gray := preprocess(img)

	tmpGray, err := saveTemp(gray, "ocr-gray-*.png")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpGray)
	tmpBin, err := saveTemp(binarize(gray, 200), "ocr-bin-*.png")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpBin)

	best := ""
	for _, p := range []string{tmpGray, tmpBin} {
		t, err := runPass(p)
		if err != nil {
			continue
		}
		t = normalizeOCRText(t)
		if len(t) > len(best) {
			best = t
		}
	}
	if best == "" {
		return "", ErrNoText
	}
	return best, nil
}

func runPass(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("fra", "eng")
	client.SetImage(path)
	return client.Text()
}

func saveTemp(img image.Image, pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	if err := imaging.Save(img, name); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("save %s: %w", pattern, err)
	}
	return name, nil
}
