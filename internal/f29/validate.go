package f29

// DefaultTolerance is the absolute difference tolerated by consistency rules
const DefaultTolerance int64 = 1000

// Rule names reported in warnings
const (
	RuleIVADetermined      = "iva-determined"
	RuleTotalDetermined    = "total-determined"
	RuleSubtotalDetermined = "subtotal-determined"
)

var determinedComponents = []string{codeID("089"), codeID("062"), codeID("151")}

// Warning records a consistency finding. The declaration may legitimately
// carry the discrepancy, so it is reported rather than corrected.
type Warning struct {
	Rule       string   `json:"rule"`
	Field      string   `json:"field"`
	Against    []string `json:"against"`
	Expected   int64    `json:"expected"`
	Observed   int64    `json:"observed"`
	Difference int64    `json:"difference"`
}

// Validator derives missing totals and checks cross-field consistency
type Validator struct {
	tolerance int64
}

// NewValidator creates a validator. A negative tolerance is treated as zero.
func NewValidator(tolerance int64) *Validator {
	if tolerance < 0 {
		tolerance = 0
	}
	return &Validator{tolerance: tolerance}
}

// Validate returns a copy of fields with derived values added, plus any
// warnings. Extracted values are never removed or overwritten.
func (v *Validator) Validate(fields ResultMap) (ResultMap, []Warning) {
	out := make(ResultMap, len(fields)+1)
	for k, r := range fields {
		out[k] = r
	}

	debits, hasDebits := out.Amount(codeID("538"))
	credits, hasCredits := out.Amount(codeID("537"))
	determined, hasDetermined := out.Amount(codeID("089"))

	var warnings []Warning
	if hasDebits && hasCredits {
		expected := max(0, debits-credits)
		switch {
		case !hasDetermined:
			// Both totals were extracted, so a zero difference is corroborated.
			out[codeID("089")] = FieldResult{Value: AmountValue(expected), Strategy: StrategyDerived}
		default:
			if w, ok := v.compare(RuleIVADetermined, codeID("089"), []string{codeID("538"), codeID("537")}, expected, determined); ok {
				warnings = append(warnings, w)
			}
		}
	}

	for _, rule := range []struct {
		name  string
		field string
	}{
		{RuleTotalDetermined, codeID("547")},
		{RuleSubtotalDetermined, codeID("595")},
	} {
		observed, ok := out.Amount(rule.field)
		if !ok {
			continue
		}
		var sum int64
		var present []string
		for _, id := range determinedComponents {
			if n, ok := out.Amount(id); ok {
				sum += n
				present = append(present, id)
			}
		}
		if len(present) < 2 {
			continue
		}
		if w, ok := v.compare(rule.name, rule.field, present, sum, observed); ok {
			warnings = append(warnings, w)
		}
	}

	return out, warnings
}

func (v *Validator) compare(rule, field string, against []string, expected, observed int64) (Warning, bool) {
	diff := observed - expected
	if diff < 0 {
		diff = -diff
	}
	if diff <= v.tolerance {
		return Warning{}, false
	}
	return Warning{
		Rule:       rule,
		Field:      field,
		Against:    against,
		Expected:   expected,
		Observed:   observed,
		Difference: diff,
	}, true
}
