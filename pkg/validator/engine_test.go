package validator

import (
	"strings"
	"testing"
	"time"
)

// fixed clock for every scenario: policies compare against "today"
var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func testChecks() FormatChecks {
	return FormatChecks{
		DateFormat: func(s string) (bool, string) {
			t, ok := ParseDateAny(s)
			if !ok {
				return false, "format de date non reconnu: " + s
			}
			return true, t.Format("02/01/2006")
		},
		IBAN: func(s string) (bool, string) {
			if len(s) == 28 && strings.HasPrefix(s, "MA") {
				return true, ""
			}
			return false, "structure IBAN invalide"
		},
		RIB: func(s string) (bool, string) {
			if len(s) == 24 {
				return true, ""
			}
			return false, "longueur incorrecte"
		},
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return testToday }
	eng, err := New(cfg, testChecks())
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	return eng
}

func TestNewRequiresAllChecks(t *testing.T) {
	checks := testChecks()
	checks.IBAN = nil
	if _, err := New(DefaultConfig(), checks); err == nil {
		t.Fatalf("expected construction error with a nil check")
	}
}

func TestValidateIDAccept(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "ID",
		Proposed: []byte(`{"score": 95, "reason": "document conforme", "extracted_data": {
			"cne": "ab-123456", "full_name": "Ahmed Benali 3", "birth_date": "01/01/1990", "expiry_date": "12/01/2026"}}`),
	})
	if res.Decision != DecisionAccept || !res.IsValid {
		t.Fatalf("expected ACCEPT, got %s (reason=%q)", res.Decision, res.Reason)
	}
	if res.Score != 95 {
		t.Fatalf("expected score 95, got %d", res.Score)
	}
	if res.ExtractedData["cne"] != "AB123456" {
		t.Fatalf("expected normalized cne, got %q", res.ExtractedData["cne"])
	}
	if res.ExtractedData["full_name"] != "Ahmed Benali" {
		t.Fatalf("expected cleaned name, got %q", res.ExtractedData["full_name"])
	}
	f := res.FormatValidation
	if !f.DatesFormatValid || !f.CNEFormatValid || !f.RIBFormatValid || !f.IBANFormatValid {
		t.Fatalf("expected all flags true, got %+v", f)
	}
}

func TestValidateIDInvalidExpiry(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "ID",
		Proposed: []byte(`{"score": 95, "extracted_data": {
			"cne": "AB123456", "birth_date": "01/01/1990", "expiry_date": "31/13/2025"}}`),
	})
	if res.Decision != DecisionReview || res.IsValid {
		t.Fatalf("expected REVIEW, got %s", res.Decision)
	}
	if res.FormatValidation.DatesFormatValid {
		t.Fatalf("expected dates flag flipped")
	}
	if !strings.Contains(res.Reason, "date d'expiration") {
		t.Fatalf("expected expiry mention in reason, got %q", res.Reason)
	}
	if !strings.Contains(res.Reason, "À vérifier: ") {
		t.Fatalf("expected review prefix in reason, got %q", res.Reason)
	}
	if res.Score != 95-eng.cfg.FormatErrorPenalty {
		t.Fatalf("expected one error penalty, got score %d", res.Score)
	}
}

func TestValidateIDExpiredByPolicy(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "ID",
		Proposed: []byte(`{"score": 95, "extracted_data": {
			"cne": "AB123456", "birth_date": "01/01/1990", "expiry_date": "01/01/2020"}}`),
	})
	if res.Decision != DecisionReview {
		t.Fatalf("expected REVIEW for expired document")
	}
	// the format itself was fine, only the policy relation failed
	if !res.FormatValidation.DatesFormatValid {
		t.Fatalf("policy violation must not flip the format flag")
	}
}

func TestValidateIDCodeRecoveredFromText(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "ID",
		RawText: "ROYAUME DU MAROC CNIE AB123456 CARTE NATIONALE",
		Proposed: []byte(`{"score": 90, "extracted_data": {
			"birth_date": "01/01/1990", "expiry_date": "12/01/2026"}}`),
	})
	if res.ExtractedData["cne"] != "AB123456" {
		t.Fatalf("expected contextual recovery, got %q", res.ExtractedData["cne"])
	}
	if res.Decision != DecisionAccept {
		t.Fatalf("expected ACCEPT after recovery, got %s (reason=%q)", res.Decision, res.Reason)
	}
}

func TestValidateBankTamperForcesReview(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "BANK",
		Tech:    TechReport{PotentialTampering: true, EditorDetected: "Canva Design Tool"},
		Proposed: []byte(`{"score": 100, "extracted_data": {
			"account_holder": "Ahmed Benali",
			"bank_code": "011", "branch_code": "640",
			"account_number": "1234567890123456", "check_key": "78",
			"iban": "IBAN: MA71 0116 4012 3456 7890 1234 5678"}}`),
	})
	if res.Decision != DecisionReview || res.IsValid {
		t.Fatalf("tamper must force REVIEW, got %s", res.Decision)
	}
	if !res.FraudSuspected {
		t.Fatalf("expected fraud_suspected")
	}
	found := false
	for _, s := range res.FraudSignals {
		if s == "suspicious editor: Canva Design Tool" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected editor signal, got %v", res.FraudSignals)
	}
	// fields themselves were perfect
	if res.ExtractedData["rib"] != "011640123456789012345678" {
		t.Fatalf("expected assembled RIB, got %q", res.ExtractedData["rib"])
	}
	if res.ExtractedData["iban"] != "MA71011640123456789012345678" {
		t.Fatalf("expected trimmed IBAN, got %q", res.ExtractedData["iban"])
	}
	f := res.FormatValidation
	if !f.RIBFormatValid || !f.IBANFormatValid {
		t.Fatalf("expected bank flags true, got %+v", f)
	}
}

func TestValidateBankShortRIB(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "BANK",
		Proposed: []byte(`{"score": 100, "extracted_data": {
			"account_holder": "Ahmed Benali",
			"bank_code": "011", "branch_code": "640",
			"account_number": "123456789012345", "check_key": "78",
			"iban": "MA71011640123456789012345678"}}`),
	})
	if res.FormatValidation.RIBFormatValid {
		t.Fatalf("expected rib flag flipped for 23-digit assembly")
	}
	if res.Decision != DecisionReview {
		t.Fatalf("expected REVIEW, got %s", res.Decision)
	}
}

func TestValidateDeathFutureDate(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "DEATH",
		RawText: "CERTIFICAT DE DECES ... DECEDE CIN AB123456",
		Proposed: []byte(`{"score": 95, "extracted_data": {
			"birth_date": "01/01/1950", "death_date": "01/01/2030"}}`),
	})
	if res.ExtractedData["cne"] != "AB123456" {
		t.Fatalf("expected contextual recovery for deceased cne, got %q", res.ExtractedData["cne"])
	}
	if res.Decision != DecisionReview {
		t.Fatalf("a death date after today must fail the policy relation")
	}
}

func TestValidateLifeContractRolesNotSwapped(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "LIFE_CONTRACT",
		RawText: "CONTRAT D'ASSURANCE VIE - ASSURE M. BENALI CIN AB123456 NE LE 01/01/1980 - BENEFICIAIRE MME TAZI CIN CD789012",
		Proposed: []byte(`{"score": 95, "extracted_data": {
			"insured_birth_date": "01/01/1980", "beneficiary_birth_date": "05/05/1995",
			"effective_date": "01/01/2025", "duration": "2 ans"}}`),
	})
	if res.ExtractedData["insured_cne"] != "AB123456" {
		t.Fatalf("insured code wrong: %q", res.ExtractedData["insured_cne"])
	}
	if res.ExtractedData["beneficiary_cne"] != "CD789012" {
		t.Fatalf("beneficiary code wrong: %q", res.ExtractedData["beneficiary_cne"])
	}
	if res.Decision != DecisionAccept {
		t.Fatalf("expected ACCEPT, got %s (reason=%q)", res.Decision, res.Reason)
	}
}

func TestValidateLifeContractMissingEnd(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType: "LIFE_CONTRACT",
		Proposed: []byte(`{"score": 95, "extracted_data": {
			"insured_cne": "AB123456", "beneficiary_cne": "CD789012",
			"insured_birth_date": "01/01/1980", "beneficiary_birth_date": "05/05/1995",
			"effective_date": "01/01/2025"}}`),
	})
	if res.Decision != DecisionReview {
		t.Fatalf("missing end date and duration must route to review")
	}
	if !strings.Contains(res.Reason, "durée") {
		t.Fatalf("expected duration mention, got %q", res.Reason)
	}
}

func TestValidateSchemaViolationFailsClosed(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{
		DocType:  "ID",
		Proposed: []byte(`{"extracted_data": {"cne": 12345}}`),
	})
	if res.Decision != DecisionReview || res.Score != 0 {
		t.Fatalf("expected REVIEW with score 0, got %s/%d", res.Decision, res.Score)
	}
	if !strings.HasPrefix(res.Reason, "upstream contract violation: ") {
		t.Fatalf("expected contract violation reason, got %q", res.Reason)
	}
}

func TestValidateUnknownType(t *testing.T) {
	eng := testEngine(t)
	res := eng.Validate(Input{DocType: "PASSPORT", Proposed: []byte(`{"score": 95}`)})
	if res.DocType != DocTypeUnknown {
		t.Fatalf("expected UNKNOWN, got %s", res.DocType)
	}
	if res.Decision != DecisionReview {
		t.Fatalf("no extracted data must route to review")
	}
}

func TestValidateDefaultBaseScoreBlocksAccept(t *testing.T) {
	eng := testEngine(t)
	// a clean document with no upstream score defaults below the bar
	res := eng.Validate(Input{
		DocType: "ID",
		Proposed: []byte(`{"extracted_data": {
			"cne": "AB123456", "birth_date": "01/01/1990", "expiry_date": "12/01/2026"}}`),
	})
	if res.Score != 60 {
		t.Fatalf("expected default base score 60, got %d", res.Score)
	}
	if res.Decision != DecisionReview {
		t.Fatalf("default base score must not clear the acceptance bar")
	}
}

func TestValidateDecisionSetAndScoreBounds(t *testing.T) {
	eng := testEngine(t)
	inputs := []Input{
		{DocType: "ID"},
		{DocType: "BANK", Proposed: []byte(`{"score": -50}`)},
		{DocType: "DEATH", Proposed: []byte(`{"score": 900}`)},
		{DocType: "LIFE_CONTRACT", Proposed: []byte(`not json`)},
		{DocType: ""},
	}
	for i, in := range inputs {
		res := eng.Validate(in)
		if res.Decision != DecisionAccept && res.Decision != DecisionReview {
			t.Fatalf("input %d: decision %q outside the allowed set", i, res.Decision)
		}
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("input %d: score %d out of bounds", i, res.Score)
		}
		if res.IsValid != (res.Decision == DecisionAccept) {
			t.Fatalf("input %d: is_valid does not mirror the decision", i)
		}
	}
}
