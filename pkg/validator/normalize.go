package validator

import (
	"regexp"
	"strings"
	"unicode"
)

var strictCodeRE = regexp.MustCompile(`^[A-Z]{2}[0-9]{6}$`)

// CleanName strips digits and every character that is not a letter
// (accented Latin included), whitespace, apostrophe or hyphen, then
// collapses whitespace runs. Total and idempotent: never fails, empty in
// gives empty out.
func CleanName(s string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return -1
		case unicode.IsLetter(r), unicode.IsSpace(r), r == '\'', r == '-':
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(kept), " ")
}

// NormalizeIdentityCode uppercases then strips everything outside [A-Z0-9].
func NormalizeIdentityCode(s string) string {
	up := strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, up)
}

// IsStrictCode reports whether s normalizes to the Moroccan national
// identity shape: exactly two letters followed by six digits.
func IsStrictCode(s string) bool {
	return strictCodeRE.MatchString(NormalizeIdentityCode(s))
}

// onlyDigits extracts decimal digits from a string.
func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
