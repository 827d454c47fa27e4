package validator

import "encoding/json"

// DocType is the caller-supplied document category. The engine never infers
// it from content; an unrecognized label degrades to DocTypeUnknown.
type DocType string

const (
	DocTypeID           DocType = "ID"
	DocTypeBank         DocType = "BANK"
	DocTypeDeath        DocType = "DEATH"
	DocTypeLifeContract DocType = "LIFE_CONTRACT"
	DocTypeUnknown      DocType = "UNKNOWN"
)

// ParseDocType maps a raw label to a DocType. Anything outside the four
// known labels becomes DocTypeUnknown.
func ParseDocType(s string) DocType {
	switch DocType(s) {
	case DocTypeID, DocTypeBank, DocTypeDeath, DocTypeLifeContract:
		return DocType(s)
	}
	return DocTypeUnknown
}

// Fields is the mutable field map produced by the upstream extraction.
// Values are always plain strings; normalization and contextual fallback
// rewrite entries in place.
type Fields map[string]string

// TechReport is the structural tamper bundle computed by the
// technical-integrity collaborator (PDF metadata + font diversity).
type TechReport struct {
	SuspiciousMetadata bool   `json:"suspicious_metadata"`
	EditorDetected     string `json:"editor_detected"`
	FontCount          int    `json:"font_count"`
	PotentialTampering bool   `json:"potential_tampering"`
}

// FormatFlags records per-category format health. All flags start true and
// are flipped false on the first violation of that category; they are
// informational and never the sole decision input.
type FormatFlags struct {
	DatesFormatValid bool `json:"dates_format_valid"`
	RIBFormatValid   bool `json:"rib_format_valid"`
	IBANFormatValid  bool `json:"iban_format_valid"`
	CNEFormatValid   bool `json:"cne_format_valid"`
}

func newFormatFlags() FormatFlags {
	return FormatFlags{
		DatesFormatValid: true,
		RIBFormatValid:   true,
		IBANFormatValid:  true,
		CNEFormatValid:   true,
	}
}

// Decision is the terminal verdict. There is no REJECT state: product policy
// routes every doubtful document to human review instead.
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReview Decision = "REVIEW"
)

// Input bundles everything one validation run consumes.
type Input struct {
	RawText  string          `json:"raw_text"`
	Tech     TechReport      `json:"tech_report"`
	DocType  string          `json:"forced_doc_type"`
	Proposed json.RawMessage `json:"proposed_result"`
}

// Result is the engine output. IsValid mirrors Decision == ACCEPT exactly.
type Result struct {
	Decision         Decision    `json:"decision"`
	Score            int         `json:"score"`
	Country          string      `json:"country"`
	DocType          DocType     `json:"doc_type"`
	FraudSuspected   bool        `json:"fraud_suspected"`
	FraudSignals     []string    `json:"fraud_signals"`
	ExtractedData    Fields      `json:"extracted_data"`
	FormatValidation FormatFlags `json:"format_validation"`
	Reason           string      `json:"reason"`
	IsValid          bool        `json:"is_valid"`
}
