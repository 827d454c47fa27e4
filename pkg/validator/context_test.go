package validator

import "testing"

func TestExtractCodeByContextKeywordWins(t *testing.T) {
	// two strict-shaped codes: the first is plain, the second sits next to
	// the keyword and must win despite document order
	text := "Dossier ref ZZ111111 ... CNIE du titulaire: AB123456 né le 01/01/1990"
	got := ExtractCodeByContext(text, []string{"CNIE"}, 120)
	if got != "AB123456" {
		t.Fatalf("expected keyword-adjacent code AB123456, got %q", got)
	}
}

func TestExtractCodeByContextFallsBackToFirst(t *testing.T) {
	text := "identifiants: ZZ111111 puis AB123456"
	if got := ExtractCodeByContext(text, []string{"INTROUVABLE"}, 120); got != "ZZ111111" {
		t.Fatalf("expected fallback to first strict code, got %q", got)
	}
	if got := ExtractCodeByContext(text, nil, 120); got != "ZZ111111" {
		t.Fatalf("expected first strict code without keywords, got %q", got)
	}
}

func TestExtractCodeByContextSeparatorShapes(t *testing.T) {
	if got := ExtractCodeByContext("cin: ab-123456", []string{"CIN"}, 120); got != "AB123456" {
		t.Fatalf("expected normalized code from loose shape, got %q", got)
	}
}

func TestExtractCodeByContextNoStrictMatch(t *testing.T) {
	if got := ExtractCodeByContext("aucun code ici, rien que du bruit: 12345", []string{"CIN"}, 120); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestExtractCodeByContextWindowLimit(t *testing.T) {
	// keyword sits outside the tiny window: proximity must not trigger
	text := "CNIE ................................ AB123456 et avant lui ZZ111111"
	if got := ExtractCodeByContext(text, []string{"CNIE"}, 5); got != "AB123456" {
		t.Fatalf("expected first strict code %q, got %q", "AB123456", got)
	}
}
