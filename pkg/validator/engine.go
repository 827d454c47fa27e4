package validator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FormatChecks are the external pure format validators the engine consumes.
// Each returns ok plus either a normalized value (date) or a violation
// message. The engine composes their results into errors and flags without
// looking inside.
type FormatChecks struct {
	DateFormat func(string) (bool, string)
	IBAN       func(string) (bool, string)
	RIB        func(string) (bool, string)
}

// Engine is the deterministic validation core. It holds no per-document
// state: Validate is safe to call concurrently across documents.
type Engine struct {
	cfg     Config
	checks  FormatChecks
	schemas map[DocType]proposalSchema
}

// New builds an engine. All three format checks are required; a nil check is
// a construction-time error, not something to degrade around.
func New(cfg Config, checks FormatChecks) (*Engine, error) {
	if checks.DateFormat == nil || checks.IBAN == nil || checks.RIB == nil {
		return nil, fmt.Errorf("validator: all format checks must be provided")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = defaultContextWindow
	}
	schemas, err := compileProposalSchemas()
	if err != nil {
		return nil, fmt.Errorf("validator: compile proposal schemas: %w", err)
	}
	return &Engine{cfg: cfg, checks: checks, schemas: schemas}, nil
}

// proposal mirrors the upstream model output. Every field is optional and
// defaulted; the schema check rejects wrong shapes before this is populated.
type proposal struct {
	Decision       string            `json:"decision"`
	Score          json.RawMessage   `json:"score"`
	DocType        string            `json:"doc_type"`
	Country        string            `json:"country"`
	FraudSuspected bool              `json:"fraud_suspected"`
	FraudSignals   []string          `json:"fraud_signals"`
	ExtractedData  map[string]string `json:"extracted_data"`
	Reason         string            `json:"reason"`
}

// Validate runs the full pipeline: schema gate, normalization, contextual
// fallback, per-type rules, fraud aggregation, scoring. It never fails on
// document content; bad content only accumulates errors and penalties.
func (e *Engine) Validate(in Input) Result {
	dt := ParseDocType(strings.ToUpper(strings.TrimSpace(in.DocType)))
	res := Result{
		Decision:         DecisionReview,
		DocType:          dt,
		Country:          e.cfg.Country,
		FraudSignals:     []string{},
		ExtractedData:    Fields{},
		FormatValidation: newFormatFlags(),
	}

	raw := in.Proposed
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := e.checkProposal(dt, raw); err != nil {
		// Fail closed: a malformed upstream payload goes straight to
		// review, it is never silently defaulted into an ACCEPT path.
		res.Score = 0
		res.Reason = "upstream contract violation: " + err.Error()
		return res
	}
	var prop proposal
	_ = json.Unmarshal(raw, &prop)

	if c := strings.TrimSpace(prop.Country); c != "" {
		res.Country = c
	}

	r := &ruleRun{
		cfg:    e.cfg,
		checks: e.checks,
		raw:    in.RawText,
		fields: Fields{},
		flags:  newFormatFlags(),
		today:  e.cfg.Now(),
	}
	for k, v := range prop.ExtractedData {
		r.fields[k] = v
	}
	r.normalizeNames(dt)

	switch dt {
	case DocTypeID:
		r.applyIDRules()
	case DocTypeBank:
		r.applyBankRules()
	case DocTypeDeath:
		r.applyDeathRules()
	case DocTypeLifeContract:
		r.applyLifeContractRules()
	default:
		r.applyUnknownRules()
	}

	signals := aggregateFraudSignals(prop.FraudSignals, in.Tech, e.cfg.FontCountThreshold)

	res.ExtractedData = r.fields
	res.FormatValidation = r.flags
	res.FraudSignals = signals
	res.FraudSuspected = prop.FraudSuspected || len(signals) > 0
	res.Score, res.Decision = scoreAndDecide(e.cfg, baseScore(prop.Score, e.cfg.DefaultBaseScore), len(r.errs), len(signals), in.Tech.PotentialTampering)
	res.IsValid = res.Decision == DecisionAccept
	res.Reason = composeReason(prop.Reason, r.errs)
	return res
}

// SystemFailure is the fail-closed result for an upstream collaborator
// breakdown (OCR, model call): review, score zero, explicit system reason.
// Collaborator failures are never surfaced to the end user as faults.
func (e *Engine) SystemFailure(dt DocType, reason string) Result {
	return Result{
		Decision:         DecisionReview,
		Score:            0,
		Country:          e.cfg.Country,
		DocType:          dt,
		FraudSignals:     []string{},
		ExtractedData:    Fields{},
		FormatValidation: newFormatFlags(),
		Reason:           reason,
	}
}

// composeReason appends the format errors to the upstream reason under the
// fixed review prefix.
func composeReason(upstream string, errs []string) string {
	if len(errs) == 0 {
		return upstream
	}
	suffix := "À vérifier: " + strings.Join(errs, "; ")
	if strings.TrimSpace(upstream) == "" {
		return suffix
	}
	return upstream + " | " + suffix
}
