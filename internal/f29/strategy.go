package f29

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy is one independent way of producing candidates from a document.
// Implementations are pure: they never fail and never retain the document.
type Strategy interface {
	Name() string
	Rank() int
	Extract(doc Document) []Candidate
}

// Fixed strategy ranks, lower wins
const (
	rankBasicInfo = iota
	rankLabelPattern
	rankTableRow
	rankVisualTable
	rankBinary
)

// minTableAmount rejects stray codes and footnote numbers on table rows
const minTableAmount = 1000

// numberPattern matches a numeric token with optional grouping separators
const numberPattern = `\d[\d.,]*\d|\d`

var numberToken = regexp.MustCompile(numberPattern)

// interpret turns a raw token into a value for spec. Tokens that merely repeat
// the field code are never evidence. With tableFloor set, amounts below
// minTableAmount and rate fields are rejected.
func interpret(spec FieldSpec, raw string, tableFloor bool) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == spec.Code {
		return Value{}
	}

	switch spec.Kind {
	case KindAmount:
		n := ParseAmount(raw)
		if n <= 0 || (tableFloor && n < minTableAmount) {
			return Value{}
		}
		return AmountValue(n)
	case KindCount:
		n := ParseAmount(raw)
		if n < 1 {
			return Value{}
		}
		return AmountValue(n)
	case KindRate:
		if tableFloor {
			return Value{}
		}
		r := ParseRate(raw)
		if r == "" {
			return Value{}
		}
		if d, err := decimal.NewFromString(r); err != nil || d.IsZero() {
			return Value{}
		}
		return TextValue(r)
	default:
		return Value{}
	}
}

// larger reports whether a should replace b as the best value for kind
func larger(kind Kind, a, b Value) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	if kind == KindRate {
		da, errA := decimal.NewFromString(a.Text)
		db, errB := decimal.NewFromString(b.Text)
		if errA != nil || errB != nil {
			return false
		}
		return da.GreaterThan(db)
	}
	return a.Amount > b.Amount
}

// bestValues keeps the largest value per field and emits candidates in the order fields were first seen
type bestValues struct {
	order []FieldSpec
	best  map[string]Value
}

func newBestValues() *bestValues {
	return &bestValues{best: make(map[string]Value)}
}

func (b *bestValues) offer(spec FieldSpec, v Value) {
	cur, seen := b.best[spec.ID]
	if !seen {
		if v.IsZero() {
			return
		}
		b.order = append(b.order, spec)
		b.best[spec.ID] = v
		return
	}
	if larger(spec.Kind, v, cur) {
		b.best[spec.ID] = v
	}
}

func (b *bestValues) has(id string) bool {
	_, ok := b.best[id]
	return ok
}

func (b *bestValues) candidates(strategy string) []Candidate {
	out := make([]Candidate, 0, len(b.order))
	for _, spec := range b.order {
		out = append(out, Candidate{Field: spec.ID, Value: b.best[spec.ID], Strategy: strategy})
	}
	return out
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
