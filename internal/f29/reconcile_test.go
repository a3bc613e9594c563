package f29

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	candidates := []Candidate{
		{Field: "code538", Value: AmountValue(3410651), Strategy: StrategyTableRow, Rank: rankTableRow, Order: 2},
		{Field: "code538", Value: AmountValue(3410000), Strategy: StrategyLabelPattern, Rank: rankLabelPattern, Order: 1},
		{Field: "code511", Value: AmountValue(4188643), Strategy: StrategyVisualTable, Rank: rankVisualTable, Order: 3},
		{Field: "code511", Value: Value{}, Strategy: StrategyLabelPattern, Rank: rankLabelPattern, Order: 1},
		{Field: "code089", Value: AmountValue(10), Strategy: StrategyBinary, Rank: rankBinary, Order: 4},
		{Field: FieldRUT, Value: TextValue("76.123.456-0"), Strategy: StrategyBasicInfo, Rank: rankBasicInfo, Order: 0},
	}

	expected := ResultMap{
		"code538": {Value: AmountValue(3410000), Strategy: StrategyLabelPattern},
		"code511": {Value: AmountValue(4188643), Strategy: StrategyVisualTable},
		"code089": {Value: AmountValue(10), Strategy: StrategyBinary},
		FieldRUT:  {Value: TextValue("76.123.456-0"), Strategy: StrategyBasicInfo},
	}
	assert.Equal(t, expected, Reconcile(candidates))

	rng := rand.New(rand.NewSource(29))
	for i := 0; i < 20; i++ {
		shuffled := append([]Candidate(nil), candidates...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, expected, Reconcile(shuffled))
	}
}

func TestReconcile_OrderBreaksTies(t *testing.T) {
	candidates := []Candidate{
		{Field: "code538", Value: AmountValue(2), Strategy: "second", Rank: 1, Order: 7},
		{Field: "code538", Value: AmountValue(1), Strategy: "first", Rank: 1, Order: 3},
	}

	result := Reconcile(candidates)
	assert.Equal(t, "first", result["code538"].Strategy)
}

func TestReconcile_Empty(t *testing.T) {
	assert.Empty(t, Reconcile(nil))
	assert.Empty(t, Reconcile([]Candidate{{Field: "code538", Strategy: StrategyTableRow}}))
}
