package f29

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rutPattern    = regexp.MustCompile(`(?:^|[^0-9.])(\d{1,2}\.\d{3}\.\d{3}-[0-9kK])(?:[^0-9A-Za-z]|$)`)
	periodLabel   = regexp.MustCompile(`PERIODO[^0-9]{0,30}(\d{6})(?:[^0-9]|$)`)
	periodToken   = regexp.MustCompile(`20\d{4}`)
	folioPattern  = regexp.MustCompile(`FOLIO\s*(?:N\s*[°º]?\.?\s*)?:?\s*(\d+)`)
	nameLabel     = regexp.MustCompile(`(?i:RAZ[OÓ]N SOCIAL|NOMBRE)\s*:?[ \t]*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ0-9&.\-]*(?: [A-ZÁÉÍÓÚÑ0-9&.\-]+)*)`)
	corporateName = regexp.MustCompile(`([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ0-9&\-]*(?: [A-ZÁÉÍÓÚÑ0-9&.\-]+)*? (?:SPA|SpA|LTDA\.?|LIMITADA|S\.A\.|EIRL|E\.I\.R\.L\.))(?:[^A-Za-z]|$)`)
	totalPayable  = regexp.MustCompile(`TOTAL A PAGAR(?:\s+DENTRO DEL PLAZO LEGAL)?[^0-9]{0,40}(` + numberPattern + `)`)
)

// BasicInfoExtractor recovers the non-coded header fields: RUT, period, folio,
// taxpayer name and total payable.
type BasicInfoExtractor struct{}

// NewBasicInfoExtractor creates a basic-info extractor
func NewBasicInfoExtractor() *BasicInfoExtractor {
	return &BasicInfoExtractor{}
}

func (e *BasicInfoExtractor) Name() string { return StrategyBasicInfo }

func (e *BasicInfoExtractor) Rank() int { return rankBasicInfo }

func (e *BasicInfoExtractor) Extract(doc Document) []Candidate {
	if doc.Text == "" {
		return nil
	}
	folded := Fold(doc.Text)

	var out []Candidate
	add := func(field string, v Value) {
		if !v.IsZero() {
			out = append(out, Candidate{Field: field, Value: v, Strategy: StrategyBasicInfo})
		}
	}

	add(FieldRUT, TextValue(findRUT(doc.Text)))
	add(FieldPeriod, TextValue(findPeriod(folded)))
	if m := folioPattern.FindStringSubmatch(folded); m != nil {
		add(FieldFolio, TextValue(m[1]))
	}
	add(FieldTaxpayerName, TextValue(findTaxpayerName(doc.Text)))
	if m := totalPayable.FindStringSubmatch(folded); m != nil {
		add(FieldTotalPayable, AmountValue(ParseAmount(m[1])))
	}
	return out
}

// findRUT returns the first RUT with a valid check digit, or the first
// well-formed one when none validates
func findRUT(text string) string {
	matches := rutPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	for _, m := range matches {
		if ValidRUT(m[1]) {
			return strings.ToUpper(m[1])
		}
	}
	return strings.ToUpper(matches[0][1])
}

// ValidRUT checks the modulo-11 verifier digit of a formatted RUT
func ValidRUT(rut string) bool {
	dash := strings.LastIndexByte(rut, '-')
	if dash < 1 || dash != len(rut)-2 {
		return false
	}
	body := strings.ReplaceAll(rut[:dash], ".", "")
	if body == "" {
		return false
	}

	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if !isDigit(c) {
			return false
		}
		sum += int(c-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var want byte
	switch dv := 11 - sum%11; dv {
	case 11:
		want = '0'
	case 10:
		want = 'K'
	default:
		want = byte('0' + dv)
	}
	got := rut[len(rut)-1]
	if got == 'k' {
		got = 'K'
	}
	return got == want
}

// findPeriod prefers a labeled YYYYMM token and falls back to the first
// free-standing 20YYMM token with a valid month
func findPeriod(folded string) string {
	if m := periodLabel.FindStringSubmatch(folded); m != nil && validPeriod(m[1]) {
		return m[1]
	}
	for _, loc := range periodToken.FindAllStringIndex(folded, -1) {
		if adjacentNumeric(folded, loc[0]-1) || adjacentNumeric(folded, loc[1]) {
			continue
		}
		if loc[0] > 0 && strings.ContainsRune(".,-", rune(folded[loc[0]-1])) {
			continue
		}
		if loc[1] < len(folded) && strings.ContainsRune(".,", rune(folded[loc[1]])) {
			continue
		}
		if tok := folded[loc[0]:loc[1]]; validPeriod(tok) {
			return tok
		}
	}
	return ""
}

func validPeriod(tok string) bool {
	if len(tok) != 6 {
		return false
	}
	year, err := strconv.Atoi(tok[:4])
	if err != nil || year < 2000 || year > 2099 {
		return false
	}
	month, err := strconv.Atoi(tok[4:])
	return err == nil && month >= 1 && month <= 12
}

func findTaxpayerName(text string) string {
	for _, re := range []*regexp.Regexp{nameLabel, corporateName} {
		for _, line := range splitLines(text) {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := strings.TrimRight(strings.TrimSpace(m[1]), ",-")
			if len([]rune(name)) >= 3 {
				return name
			}
		}
	}
	return ""
}
