package f29

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "TOTAL DEBITOS", Fold("Total Débitos"))
	assert.Equal(t, "CRED. IVA", Fold("CRÉD. IVA"))
	assert.Equal(t, "RECUPERACION IMPUESTO ESPECIFICO DIESEL", Fold("recuperación impuesto específico diésel"))
	assert.Equal(t, "A\nB", Fold("a\nb"))
}

func TestContainsCodeToken(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		code     string
		expected bool
	}{
		{name: "line_start", text: "538 TOTAL DEBITOS", code: "538", expected: true},
		{name: "in_parentheses", text: "TOTAL (538)", code: "538", expected: true},
		{name: "end_of_sentence", text: "VER CODIGO 538.", code: "538", expected: true},
		{name: "inside_longer_number", text: "FOLIO 15385", code: "538", expected: false},
		{name: "inside_rut", text: "RUT 76.538.123-4", code: "538", expected: false},
		{name: "inside_amount", text: "3.538,00", code: "538", expected: false},
		{name: "leading_zero_code", text: "062 PPM", code: "062", expected: true},
		{name: "absent", text: "TOTAL", code: "538", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsCodeToken(tt.text, tt.code))
		})
	}
}
