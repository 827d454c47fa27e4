package ocr

import (
	"errors"
	"strings"
)

// ErrNoText is returned when no usable text can be extracted from a scan.
var ErrNoText = errors.New("no text detected")

// normalizeOCRText collapses whitespace and replaces newlines/tabs.
func normalizeOCRText(t string) string {
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	return strings.Join(strings.Fields(t), " ")
}

// snippet returns a shortened version of text for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
