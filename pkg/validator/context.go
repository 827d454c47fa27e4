package validator

import (
	"regexp"
	"strings"
)

// looseCodeRE matches the rough shape of an identity code as OCR renders it:
// two letters, an optional separator artifact, six digits.
var looseCodeRE = regexp.MustCompile(`[A-Z]{2}[ \-.:/]?[0-9]{6}`)

// ExtractCodeByContext recovers an identity code the upstream extraction
// missed by scanning the raw OCR text. All loose-shaped candidates are
// normalized and filtered to strict codes. With keywords, the first
// candidate whose preceding window characters mention any keyword wins;
// otherwise (or when no candidate is keyword-adjacent) the first strict
// candidate in document order is returned. Empty string when the text holds
// no strict code at all.
func ExtractCodeByContext(text string, keywords []string, window int) string {
	up := strings.ToUpper(text)
	type candidate struct {
		code  string
		start int
	}
	var strict []candidate
	for _, loc := range looseCodeRE.FindAllStringIndex(up, -1) {
		code := NormalizeIdentityCode(up[loc[0]:loc[1]])
		if strictCodeRE.MatchString(code) {
			strict = append(strict, candidate{code: code, start: loc[0]})
		}
	}
	if len(strict) == 0 {
		return ""
	}
	if len(keywords) == 0 {
		return strict[0].code
	}
	if window <= 0 {
		window = defaultContextWindow
	}
	for _, c := range strict {
		from := c.start - window
		if from < 0 {
			from = 0
		}
		before := up[from:c.start]
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(before, strings.ToUpper(kw)) {
				return c.code
			}
		}
	}
	return strict[0].code
}
