// Package format implements the pure format validators the rule engine
// consumes: date format, IBAN and Moroccan RIB structure.
package format

import (
	"fmt"
	"strings"

	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/validator"
)

// ValidateDateFormat checks a date string against the accepted document
// formats and returns it normalized to dd/mm/yyyy.
func ValidateDateFormat(s string) (bool, string) {
	t, ok := validator.ParseDateAny(s)
	if !ok {
		return false, fmt.Sprintf("format de date non reconnu: %s", strings.TrimSpace(s))
	}
	return true, t.Format("02/01/2006")
}

// ValidateRIB checks the 24-digit Moroccan bank identifier structure
// (bank 3, branch 3, account 16, key 2, already concatenated).
func ValidateRIB(s string) (bool, string) {
	digits := digitsOnly(s)
	if len(digits) != 24 {
		return false, fmt.Sprintf("%d chiffres (24 attendus)", len(digits))
	}
	if digits != strings.TrimSpace(s) {
		return false, "caractères non numériques dans le RIB"
	}
	return true, ""
}

// ValidateIBAN runs the ISO 7064 mod-97 check after basic shape checks.
func ValidateIBAN(s string) (bool, string) {
	clean := strings.ToUpper(strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s))
	if len(clean) < 15 || len(clean) > 34 {
		return false, fmt.Sprintf("longueur IBAN invalide: %d caractères", len(clean))
	}
	if clean[0] < 'A' || clean[0] > 'Z' || clean[1] < 'A' || clean[1] > 'Z' {
		return false, "code pays IBAN manquant"
	}
	rearranged := clean[4:] + clean[:4]
	rem := 0
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			rem = (rem*100 + int(r-'A') + 10) % 97
		default:
			return false, fmt.Sprintf("caractère IBAN invalide: %c", r)
		}
	}
	if rem != 1 {
		return false, "clé de contrôle IBAN invalide"
	}
	return true, ""
}

// digitsOnly extracts decimal digits from a string.
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Checks bundles the three validators in the shape the engine consumes.
func Checks() validator.FormatChecks {
	return validator.FormatChecks{
		DateFormat: ValidateDateFormat,
		IBAN:       ValidateIBAN,
		RIB:        ValidateRIB,
	}
}
