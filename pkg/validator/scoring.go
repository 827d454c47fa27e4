package validator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// baseScore extracts the upstream-proposed score. Model output is loose: a
// JSON number, a quoted number, or garbage all occur; anything non-numeric
// falls back to the configured default.
func baseScore(raw json.RawMessage, fallback int) int {
	if len(raw) == 0 {
		return fallback
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err2 := strconv.Atoi(strings.TrimSpace(s)); err2 == nil {
			return n
		}
	}
	return fallback
}

// scoreAndDecide applies the penalty model and the ordered decision rule.
// Tampering always wins: it forces review no matter how clean the score is.
func scoreAndDecide(cfg Config, base, numErrs, numSignals int, tampering bool) (int, Decision) {
	penalty := cfg.FormatErrorPenalty*numErrs + cfg.FraudSignalPenalty*numSignals
	final := base - penalty
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	switch {
	case tampering:
		return final, DecisionReview
	case final >= cfg.AcceptThreshold && numSignals == 0 && numErrs == 0:
		return final, DecisionAccept
	default:
		return final, DecisionReview
	}
}
