package validator

import "time"

const defaultContextWindow = 120

// DateRelation is the required position of a policy date relative to today.
type DateRelation int

const (
	OnOrAfterToday DateRelation = iota
	OnOrBeforeToday
)

// TemporalPolicy names the relation applied to each dated business rule.
// Revisions of the business rules have disagreed on the direction for some
// of these, so the relation is injected per rule instead of hard-coded.
type TemporalPolicy struct {
	IDExpiry    DateRelation
	DeathDate   DateRelation
	ContractEnd DateRelation
}

// KeywordSets holds the per-role context keywords used by the fallback code
// extraction. Insured and beneficiary sets are never shared.
type KeywordSets struct {
	ID          []string
	Death       []string
	Insured     []string
	Beneficiary []string
}

// Config carries every tunable of the engine. Values are heuristics, not
// invariants: variant document layouts are supported by changing them, not
// the code.
type Config struct {
	ContextWindow      int
	Keywords           KeywordSets
	AcceptThreshold    int
	DefaultBaseScore   int
	FormatErrorPenalty int
	FraudSignalPenalty int
	FontCountThreshold int
	Policy             TemporalPolicy
	Country            string
	Now                func() time.Time
}

// DefaultConfig returns the production policy values.
func DefaultConfig() Config {
	return Config{
		ContextWindow: defaultContextWindow,
		Keywords: KeywordSets{
			ID:          []string{"CNIE", "CIN", "NUM"},
			Death:       []string{"DECE", "CIN", "CNIE"},
			Insured:     []string{"ASSURE", "ADHERENT", "SOUSCRIPTEUR"},
			Beneficiary: []string{"BENEFICIAIRE", "BENEF", "AYANT DROIT"},
		},
		AcceptThreshold:    85,
		DefaultBaseScore:   60,
		FormatErrorPenalty: 6,
		FraudSignalPenalty: 10,
		FontCountThreshold: 8,
		Policy: TemporalPolicy{
			IDExpiry:    OnOrAfterToday,
			DeathDate:   OnOrBeforeToday,
			ContractEnd: OnOrAfterToday,
		},
		Country: "MA",
		Now:     time.Now,
	}
}

// dateSatisfies applies a DateRelation between a document date and today,
// comparing at day precision.
func dateSatisfies(rel DateRelation, d, today time.Time) bool {
	d = d.Truncate(24 * time.Hour)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if rel == OnOrAfterToday {
		return !d.Before(today)
	}
	return !d.After(today)
}
