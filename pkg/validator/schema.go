package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type proposalSchema = *jsonschema.Schema

// variantFieldKeys documents the extracted_data keys each document type is
// expected to carry. Keys are all optional (missing fields become rule
// errors, not schema violations) but every value must be a plain string.
var variantFieldKeys = map[DocType][]string{
	DocTypeID:    {"cne", "full_name", "birth_date", "expiry_date"},
	DocTypeBank:  {"account_holder", "bank_code", "branch_code", "account_number", "check_key", "iban"},
	DocTypeDeath: {"cne", "deceased_name", "birth_date", "death_date"},
	DocTypeLifeContract: {
		"insured_cne", "insured_name", "insured_birth_date",
		"beneficiary_cne", "beneficiary_name", "beneficiary_birth_date",
		"effective_date", "end_date", "duration",
	},
	DocTypeUnknown: {},
}

// FieldKeys lists the extracted_data keys expected for a document type.
func FieldKeys(dt DocType) []string {
	return append([]string(nil), variantFieldKeys[dt]...)
}

// buildProposalSchemaDoc declares the upstream contract for one variant as a
// JSON Schema document. The shape is deliberately permissive about presence
// and strict about types: model output with wrong types fails closed.
func buildProposalSchemaDoc(dt DocType) ([]byte, error) {
	str := map[string]any{"type": "string"}
	props := map[string]any{}
	for _, k := range variantFieldKeys[dt] {
		props[k] = str
	}
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"decision":        str,
			"score":           map[string]any{"type": []string{"number", "string"}},
			"doc_type":        str,
			"country":         str,
			"fraud_suspected": map[string]any{"type": "boolean"},
			"fraud_signals":   map[string]any{"type": "array", "items": str},
			"extracted_data": map[string]any{
				"type":                 "object",
				"properties":           props,
				"additionalProperties": str,
			},
			"format_validation": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "boolean"},
			},
			"reason": str,
		},
	}
	return json.Marshal(doc)
}

// compileProposalSchemas compiles one schema per document type at engine
// construction so Validate never pays compilation cost.
func compileProposalSchemas() (map[DocType]proposalSchema, error) {
	out := make(map[DocType]proposalSchema, len(variantFieldKeys))
	for dt := range variantFieldKeys {
		doc, err := buildProposalSchemaDoc(dt)
		if err != nil {
			return nil, err
		}
		compiler := jsonschema.NewCompiler()
		url := fmt.Sprintf("proposal-%s.json", strings.ToLower(string(dt)))
		if err := compiler.AddResource(url, strings.NewReader(string(doc))); err != nil {
			return nil, err
		}
		sch, err := compiler.Compile(url)
		if err != nil {
			return nil, err
		}
		out[dt] = sch
	}
	return out, nil
}

// checkProposal validates the raw upstream payload against the variant's
// declared schema.
func (e *Engine) checkProposal(dt DocType, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("payload is not valid JSON: %v", err)
	}
	sch, ok := e.schemas[dt]
	if !ok {
		sch = e.schemas[DocTypeUnknown]
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("payload violates the %s proposal schema: %v", dt, err)
	}
	return nil
}
