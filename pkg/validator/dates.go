package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	trailingDateRE = regexp.MustCompile(`([0-9]{1,2}/[0-9]{1,2}/[0-9]{4})$`)
	durationRE     = regexp.MustCompile(`([0-9]+)\s*(ans?\b|ann[eé]es?\b|mois\b|jours?\b|years?\b|months?\b|days?\b)`)
)

// ParseDateAny parses the date formats seen on Moroccan claim documents:
// dd/mm/yyyy first, then yyyy/mm/dd, with '.', '-' and stray whitespace all
// accepted as separators. Invalid calendar dates (31/02/...) are rejected.
func ParseDateAny(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	s = strings.NewReplacer(".", "/", "-", "/", " ", "/").Replace(s)
	// OCR sometimes glues a clock time in front of the real date
	// ("17.07 12/01/2026"); keep only the trailing day/month/year run.
	if m := trailingDateRE.FindStringSubmatch(s); m != nil && len(m[1]) < len(s) {
		s = m[1]
	}
	for _, layout := range []string{"2/1/2006", "2006/1/2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDuration sums free-text duration mentions in French or English
// ("2 ans et 6 mois", "18 months") into a day count. Years count as 365
// days and months as 30: approximate on purpose, contract durations on
// these documents are never calendar-exact.
func ParseDuration(s string) (int, bool) {
	low := strings.ToLower(s)
	days := 0
	matched := false
	for _, m := range durationRE.FindAllStringSubmatch(low, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(m[2], "an"), strings.HasPrefix(m[2], "year"):
			days += n * 365
		case strings.HasPrefix(m[2], "mois"), strings.HasPrefix(m[2], "month"):
			days += n * 30
		default:
			days += n
		}
		matched = true
	}
	if !matched {
		return 0, false
	}
	return days, true
}
