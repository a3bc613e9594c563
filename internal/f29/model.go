package f29

import (
	"encoding/json"
	"strconv"
)

// Strategy names as they appear in reports
const (
	StrategyBasicInfo    = "basic-info"
	StrategyLabelPattern = "label-pattern"
	StrategyTableRow     = "table-row"
	StrategyVisualTable  = "visual-table"
	StrategyBinary       = "binary"
	StrategyDerived      = "derived"
)

// Document is the read-only input of one extraction
type Document struct {
	Text string
	Raw  []byte
}

// Value holds either an amount or a textual value. The zero Value means no evidence.
type Value struct {
	Amount int64
	Text   string
}

// AmountValue wraps a whole amount
func AmountValue(n int64) Value {
	return Value{Amount: n}
}

// TextValue wraps a textual value
func TextValue(s string) Value {
	return Value{Text: s}
}

// IsZero reports whether v carries no evidence
func (v Value) IsZero() bool {
	return v.Amount == 0 && v.Text == ""
}

// IsText reports whether v is textual
func (v Value) IsText() bool {
	return v.Text != ""
}

func (v Value) String() string {
	if v.Text != "" {
		return v.Text
	}
	return strconv.FormatInt(v.Amount, 10)
}

// MarshalJSON renders amounts as numbers and text as strings
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Text != "" {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Amount)
}

// UnmarshalJSON accepts either a JSON number or string
func (v *Value) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Value{Amount: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Value{Text: s}
	return nil
}

// Candidate is one strategy's claim about one field
type Candidate struct {
	Field    string `json:"field"`
	Value    Value  `json:"value"`
	Strategy string `json:"strategy"`
	Rank     int    `json:"rank"`
	Order    int    `json:"order"`
}

// FieldResult is the reconciled answer for one field
type FieldResult struct {
	Value    Value  `json:"value"`
	Strategy string `json:"strategy"`
}

// ResultMap maps field IDs to their reconciled results
type ResultMap map[string]FieldResult

// Amount returns the amount stored for id and whether it is present
func (m ResultMap) Amount(id string) (int64, bool) {
	r, ok := m[id]
	if !ok || r.Value.IsText() {
		return 0, false
	}
	return r.Value.Amount, true
}
