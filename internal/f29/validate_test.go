package f29

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(n int64, strategy string) FieldResult {
	return FieldResult{Value: AmountValue(n), Strategy: strategy}
}

func TestValidator_DerivesIVADetermined(t *testing.T) {
	v := NewValidator(DefaultTolerance)
	in := ResultMap{
		"code538": amount(3410651, StrategyLabelPattern),
		"code537": amount(2410651, StrategyLabelPattern),
	}

	out, warnings := v.Validate(in)

	assert.Empty(t, warnings)
	assert.Equal(t, amount(1000000, StrategyDerived), out["code089"])
	_, present := in["code089"]
	assert.False(t, present, "input map must not be modified")
}

func TestValidator_DerivesZeroDetermined(t *testing.T) {
	tests := []struct {
		name    string
		debits  int64
		credits int64
	}{
		{name: "credits_equal_debits", debits: 3410651, credits: 3410651},
		{name: "credits_exceed_debits", debits: 1000, credits: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(DefaultTolerance)
			out, warnings := v.Validate(ResultMap{
				"code538": amount(tt.debits, StrategyTableRow),
				"code537": amount(tt.credits, StrategyTableRow),
			})

			assert.Equal(t, amount(0, StrategyDerived), out["code089"])
			assert.Empty(t, warnings)
		})
	}
}

func TestValidator_KeepsExtractedValue(t *testing.T) {
	v := NewValidator(DefaultTolerance)
	out, warnings := v.Validate(ResultMap{
		"code538": amount(3410651, StrategyLabelPattern),
		"code537": amount(2410651, StrategyLabelPattern),
		"code089": amount(900000, StrategyTableRow),
	})

	assert.Equal(t, amount(900000, StrategyTableRow), out["code089"])
	require.Len(t, warnings, 1)
	assert.Equal(t, Warning{
		Rule:       RuleIVADetermined,
		Field:      "code089",
		Against:    []string{"code538", "code537"},
		Expected:   1000000,
		Observed:   900000,
		Difference: 100000,
	}, warnings[0])
}

func TestValidator_TotalDetermined(t *testing.T) {
	tests := []struct {
		name          string
		fields        ResultMap
		expectedRules []string
	}{
		{
			name: "consistent_within_tolerance",
			fields: ResultMap{
				"code089": amount(1000000, StrategyLabelPattern),
				"code062": amount(50000, StrategyLabelPattern),
				"code547": amount(1050500, StrategyLabelPattern),
			},
		},
		{
			name: "total_mismatch",
			fields: ResultMap{
				"code089": amount(1000000, StrategyLabelPattern),
				"code062": amount(50000, StrategyLabelPattern),
				"code547": amount(2000000, StrategyLabelPattern),
			},
			expectedRules: []string{RuleTotalDetermined},
		},
		{
			name: "subtotal_mismatch",
			fields: ResultMap{
				"code089": amount(1000000, StrategyLabelPattern),
				"code151": amount(20000, StrategyLabelPattern),
				"code595": amount(900000, StrategyLabelPattern),
			},
			expectedRules: []string{RuleSubtotalDetermined},
		},
		{
			name: "single_component_not_checked",
			fields: ResultMap{
				"code089": amount(1000000, StrategyLabelPattern),
				"code547": amount(5, StrategyLabelPattern),
			},
		},
		{
			name: "derived_component_counts",
			fields: ResultMap{
				"code538": amount(3410651, StrategyLabelPattern),
				"code537": amount(2410651, StrategyLabelPattern),
				"code062": amount(50000, StrategyLabelPattern),
				"code547": amount(1, StrategyLabelPattern),
			},
			expectedRules: []string{RuleTotalDetermined},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, warnings := NewValidator(DefaultTolerance).Validate(tt.fields)

			var rules []string
			for _, w := range warnings {
				rules = append(rules, w.Rule)
			}
			assert.Equal(t, tt.expectedRules, rules)
		})
	}
}

func TestNewValidator_NegativeTolerance(t *testing.T) {
	v := NewValidator(-10)
	_, warnings := v.Validate(ResultMap{
		"code538": amount(3000, StrategyLabelPattern),
		"code537": amount(1000, StrategyLabelPattern),
		"code089": amount(2001, StrategyLabelPattern),
	})
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(1), warnings[0].Difference)
}
