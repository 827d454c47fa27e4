package validator

import (
	"fmt"
	"strings"
	"time"
)

// ruleRun accumulates the state of one document's rule evaluation. Checks
// append errors and flip flags; none of them short-circuits the rest.
type ruleRun struct {
	cfg    Config
	checks FormatChecks
	raw    string
	fields Fields
	flags  FormatFlags
	errs   []string
	today  time.Time
}

func (r *ruleRun) addErr(msg string) {
	r.errs = append(r.errs, msg)
}

// normalizeNames cleans the person-name fields of the variant in place.
func (r *ruleRun) normalizeNames(dt DocType) {
	var keys []string
	switch dt {
	case DocTypeID:
		keys = []string{"full_name"}
	case DocTypeBank:
		keys = []string{"account_holder"}
	case DocTypeDeath:
		keys = []string{"deceased_name"}
	case DocTypeLifeContract:
		keys = []string{"insured_name", "beneficiary_name"}
	}
	for _, k := range keys {
		if v, ok := r.fields[k]; ok {
			r.fields[k] = CleanName(v)
		}
	}
}

// requireCode validates an identity-code field, attempting contextual
// recovery from the raw text when the extraction left it blank.
func (r *ruleRun) requireCode(key string, keywords []string, label string) {
	v := strings.TrimSpace(r.fields[key])
	if v == "" {
		v = ExtractCodeByContext(r.raw, keywords, r.cfg.ContextWindow)
	}
	if v == "" {
		r.addErr(label + " manquant")
		r.flags.CNEFormatValid = false
		return
	}
	norm := NormalizeIdentityCode(v)
	r.fields[key] = norm
	if !strictCodeRE.MatchString(norm) {
		r.addErr(fmt.Sprintf("%s invalide: %s", label, norm))
		r.flags.CNEFormatValid = false
	}
}

// requireDate validates a date field through the external date check and
// optionally applies a temporal policy relation to the parsed value. Policy
// violations are recorded as errors but do not flip the dates flag: the
// format itself was fine.
func (r *ruleRun) requireDate(key, label string, policy *DateRelation, policyMsg string) {
	v := strings.TrimSpace(r.fields[key])
	if v == "" {
		r.addErr(label + " manquante")
		r.flags.DatesFormatValid = false
		return
	}
	ok, normOrMsg := r.checks.DateFormat(v)
	if !ok {
		r.addErr(fmt.Sprintf("%s invalide: %s", label, normOrMsg))
		r.flags.DatesFormatValid = false
		return
	}
	r.fields[key] = normOrMsg
	if policy == nil {
		return
	}
	if t, parsed := ParseDateAny(normOrMsg); parsed && !dateSatisfies(*policy, t, r.today) {
		r.addErr(fmt.Sprintf("%s: %s", policyMsg, normOrMsg))
	}
}

func (r *ruleRun) applyIDRules() {
	r.requireCode("cne", r.cfg.Keywords.ID, "numéro CNIE")
	r.requireDate("birth_date", "date de naissance", nil, "")
	r.requireDate("expiry_date", "date d'expiration", &r.cfg.Policy.IDExpiry, "date d'expiration hors politique de validité")
}

func (r *ruleRun) applyDeathRules() {
	r.requireCode("cne", r.cfg.Keywords.Death, "numéro CNIE du défunt")
	r.requireDate("birth_date", "date de naissance", nil, "")
	r.requireDate("death_date", "date de décès", &r.cfg.Policy.DeathDate, "date de décès hors politique de validité")
}

// ribComponents in assembly order with their expected digit widths.
var ribComponents = []struct {
	key   string
	width int
}{
	{"bank_code", 3},
	{"branch_code", 3},
	{"account_number", 16},
	{"check_key", 2},
}

func (r *ruleRun) applyBankRules() {
	if strings.TrimSpace(r.fields["account_holder"]) == "" {
		r.addErr("titulaire du compte manquant")
	}

	assembled := ""
	missing := false
	for _, c := range ribComponents {
		digits := onlyDigits(r.fields[c.key])
		if digits == "" {
			r.addErr(fmt.Sprintf("composant RIB manquant: %s", c.key))
			r.flags.RIBFormatValid = false
			missing = true
			continue
		}
		if len(digits) != c.width {
			r.addErr(fmt.Sprintf("composant RIB %s: %d chiffres (%d attendus)", c.key, len(digits), c.width))
			r.flags.RIBFormatValid = false
		}
		r.fields[c.key] = digits
		assembled += digits
	}
	if !missing {
		if len(assembled) != 24 {
			r.addErr(fmt.Sprintf("RIB assemblé de %d chiffres (24 attendus)", len(assembled)))
			r.flags.RIBFormatValid = false
		} else if ok, msg := r.checks.RIB(assembled); !ok {
			r.addErr("RIB invalide: " + msg)
			r.flags.RIBFormatValid = false
		} else {
			r.fields["rib"] = assembled
		}
	}

	iban := strings.TrimSpace(r.fields["iban"])
	if iban == "" {
		r.addErr("IBAN manquant")
		r.flags.IBANFormatValid = false
		return
	}
	cleaned := trimIBAN(iban)
	r.fields["iban"] = cleaned
	if ok, msg := r.checks.IBAN(cleaned); !ok {
		r.addErr("IBAN invalide: " + msg)
		r.flags.IBANFormatValid = false
	}
}

// trimIBAN cuts an OCR-polluted IBAN down to the 28 characters starting at
// the country-code marker, or the last 28 characters when the marker is not
// found.
func trimIBAN(s string) string {
	clean := NormalizeIdentityCode(s)
	if idx := strings.Index(clean, "MA"); idx >= 0 && len(clean)-idx >= 28 {
		return clean[idx : idx+28]
	}
	if len(clean) > 28 {
		return clean[len(clean)-28:]
	}
	return clean
}

func (r *ruleRun) applyLifeContractRules() {
	r.requireCode("insured_cne", r.cfg.Keywords.Insured, "numéro CNIE de l'assuré")
	r.requireCode("beneficiary_cne", r.cfg.Keywords.Beneficiary, "numéro CNIE du bénéficiaire")
	r.requireDate("insured_birth_date", "date de naissance de l'assuré", nil, "")
	r.requireDate("beneficiary_birth_date", "date de naissance du bénéficiaire", nil, "")
	r.requireDate("effective_date", "date d'effet du contrat", nil, "")

	if strings.TrimSpace(r.fields["end_date"]) != "" {
		r.requireDate("end_date", "date de fin du contrat", &r.cfg.Policy.ContractEnd, "date de fin du contrat hors politique de validité")
		return
	}
	days, ok := ParseDuration(r.fields["duration"])
	if !ok {
		r.addErr("date de fin ou durée du contrat manquante")
		r.flags.DatesFormatValid = false
		return
	}
	effective, parsed := ParseDateAny(r.fields["effective_date"])
	if !parsed {
		// Already reported above as a missing/invalid effective date; the
		// computed end date is simply unavailable.
		return
	}
	end := effective.AddDate(0, 0, days)
	if !dateSatisfies(r.cfg.Policy.ContractEnd, end, r.today) {
		r.addErr(fmt.Sprintf("fin de contrat calculée hors politique de validité: %s", end.Format("02/01/2006")))
	}
}

func (r *ruleRun) applyUnknownRules() {
	if len(r.fields) == 0 {
		r.addErr("aucune donnée extraite")
	}
}
