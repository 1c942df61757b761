package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sig(name string, points float64) Signal {
	return Signal{Name: name, Category: CategoryTechnical, Points: points}
}

func TestAggregate_MovingAverageGroupCap(t *testing.T) {
	signals := []Signal{
		sig("Golden Cross", 10),
		sig("Golden Cross Active", 6),
		sig("Above MA200", 5),
	}

	agg := Aggregate(CategoryTechnical, signals, 50, DefaultGroupCaps())

	assert.Equal(t, 15.0, agg.Total)
	assert.Equal(t, 6.0, agg.Discarded)
	require.Len(t, agg.Groups, 1)
	assert.Equal(t, "moving_average", agg.Groups[0].Name)
	assert.Equal(t, 21.0, agg.Groups[0].Raw)
	assert.Equal(t, 15.0, agg.Groups[0].Points)
	assert.Equal(t, 3, agg.Groups[0].Signals)
}

func TestAggregate_UngroupedAndCategoryCap(t *testing.T) {
	signals := []Signal{
		sig("RSI Oversold", 10),
		sig("Volume Surge", 5),
		sig("Pullback in Uptrend", 8),
		sig("Near 52-Week Low", 6),
		sig("Bollinger Lower Band Touch", 6),
		sig("Golden Cross", 10),
		sig("Recovery from Low", 6),
	}

	agg := Aggregate(CategoryTechnical, signals, 50, DefaultGroupCaps())

	// 10 + 5 + 8 + 12 + 10 + 6 = 51 before the category ceiling.
	assert.Equal(t, 50.0, agg.Total)
	assert.Equal(t, 5.0, agg.Ungrouped)
	assert.Equal(t, 1.0, agg.Discarded)
}

func TestAggregate_GroupInvariant(t *testing.T) {
	groups := DefaultGroupCaps()
	signals := []Signal{
		sig("RSI Oversold", 10),
		sig("MACD Bullish Crossover", 8),
		sig("Stochastic Oversold", 6),
		sig("Recovery from Low", 6),
		sig("Higher Low Forming", 4),
		sig("Bounce", 4),
	}

	agg := Aggregate(CategoryTechnical, signals, 100, groups)
	caps := make(map[string]float64)
	for _, g := range groups {
		caps[g.Name] = g.MaxPoints
	}
	for _, g := range agg.Groups {
		assert.LessOrEqual(t, g.Points, caps[g.Name], g.Name)
	}
	assert.Equal(t, 22.0, agg.Total)
}

func TestAggregate_FirstMatchWins(t *testing.T) {
	// "Momentum Pullback" matches both the momentum and pullback groups;
	// momentum is listed first.
	agg := Aggregate(CategoryTechnical, []Signal{sig("Momentum Pullback", 4)}, 50, DefaultGroupCaps())
	require.Len(t, agg.Groups, 1)
	assert.Equal(t, "momentum", agg.Groups[0].Name)
}

func TestAggregate_CaseInsensitive(t *testing.T) {
	agg := Aggregate(CategoryTechnical, []Signal{sig("GOLDEN CROSS", 20)}, 50, DefaultGroupCaps())
	assert.Equal(t, 15.0, agg.Total)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(CategoryAnalyst, nil, 20, nil)
	assert.Equal(t, 0.0, agg.Total)
	assert.Empty(t, agg.Groups)
}

func TestAggregate_NoGroups(t *testing.T) {
	signals := []Signal{
		{Name: "Attractive PEG", Category: CategoryFundamental, Points: 10},
		{Name: "High FCF Yield", Category: CategoryFundamental, Points: 8},
		{Name: "Low EV/EBITDA", Category: CategoryFundamental, Points: 6},
		{Name: "High Profit Margin", Category: CategoryFundamental, Points: 5},
		{Name: "Strong ROE", Category: CategoryFundamental, Points: 5},
	}
	agg := Aggregate(CategoryFundamental, signals, 30, nil)
	assert.Equal(t, 30.0, agg.Total)
	assert.Equal(t, 4.0, agg.Discarded)
}
