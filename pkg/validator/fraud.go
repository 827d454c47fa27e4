package validator

import (
	"fmt"
	"strings"
)

// aggregateFraudSignals merges the tech-report findings into the signals the
// upstream extraction already proposed, deduplicating while preserving
// first-seen order.
func aggregateFraudSignals(upstream []string, tech TechReport, fontThreshold int) []string {
	out := []string{}
	seen := map[string]struct{}{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range upstream {
		add(s)
	}
	if tech.PotentialTampering {
		editor := strings.TrimSpace(tech.EditorDetected)
		if editor == "" {
			editor = "unknown"
		}
		add(fmt.Sprintf("suspicious editor: %s", editor))
	}
	if tech.FontCount > fontThreshold {
		add(fmt.Sprintf("high font variety: %d fonts", tech.FontCount))
	}
	return out
}
