package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/screener/internal/models"
)

func TestLoadFile_PercentYAML(t *testing.T) {
	b, err := LoadFile(filepath.Join("testdata", "percent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ScaleDecimal, b.Scale)
	assert.Equal(t, []string{"ASX:GNP", "NYSE:AAPL"}, b.Symbols())
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), b.AsOf)

	gnp := b.Tickers[0]
	require.NotNil(t, gnp.Snapshot)
	assert.Equal(t, "ASX:GNP", gnp.Snapshot.Symbol)
	f := gnp.Fundamentals
	assert.InDelta(t, 0.185, *f.ROE, 1e-12)
	assert.InDelta(t, 0.12, *f.ProfitMargin, 1e-12)
	assert.InDelta(t, 0.45, *f.DebtToEquity, 1e-12)
	assert.InDelta(t, 0.22, *f.RevenueGrowth, 1e-12)
	assert.Equal(t, 1.2, *f.PEG, "multiples are not rescaled")
	assert.Equal(t, 1.8, *f.CurrentRatio)

	rec, ok := gnp.Analyst.Period("0m")
	require.True(t, ok)
	assert.Equal(t, 6, rec.Total())

	in := gnp.Inputs(b.AsOf)
	assert.Equal(t, 2.45, in.Price())
	assert.Equal(t, b.AsOf, in.EvaluationDate())

	aapl := b.Tickers[1].Inputs(b.AsOf)
	assert.Equal(t, "NYSE:AAPL", aapl.Snapshot.Symbol)

	ri := b.RegimeInputs()
	require.NotNil(t, ri.Volatility)
	assert.Equal(t, 17.5, *ri.Volatility)
	assert.Len(t, ri.Benchmark, 2)
	assert.Len(t, ri.Universe, 1, "tickers with history stand in for the universe")
	assert.Equal(t, "XJO", b.BenchmarkSymbol("SPY"))
}

func TestLoadFile_DecimalJSON(t *testing.T) {
	b, err := LoadFile(filepath.Join("testdata", "decimal.json"))
	require.NoError(t, err)

	assert.Equal(t, "SPY", b.BenchmarkSymbol("SPY"))
	assert.Nil(t, b.BenchmarkHistory())
	assert.Equal(t, 0.35, *b.Tickers[0].Fundamentals.ROE)
	assert.Equal(t, 0.42, *b.Tickers[0].Fundamentals.DebtToEquity)
}

func TestNormalize_Idempotent(t *testing.T) {
	b := &Bundle{
		Scale:   ScalePercent,
		Tickers: []Ticker{{Symbol: "x", Fundamentals: models.FundamentalProfile{ROE: models.Float(20)}}},
	}
	Normalize(b)
	Normalize(b)

	assert.InDelta(t, 0.20, *b.Tickers[0].Fundamentals.ROE, 1e-12)
	assert.Equal(t, "X", b.Tickers[0].Symbol)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		body   string
		want   string
	}{
		{"no tickers", FormatJSON, `{"tickers": []}`, "no tickers"},
		{"missing symbol", FormatJSON, `{"tickers": [{"symbol": ""}]}`, "Symbol"},
		{"bad scale", FormatYAML, "scale: basis\ntickers:\n  - symbol: A\n", "Scale"},
		{"duplicate", FormatYAML, "tickers:\n  - symbol: aapl\n  - symbol: AAPL\n", "duplicate symbol AAPL"},
		{"unknown field", FormatJSON, `{"tickers": [{"symbol": "A", "colour": "red"}]}`, "colour"},
		{"negative price", FormatJSON, `{"tickers": [{"symbol": "A", "snapshot": {"price": -1}}]}`, "Price"},
		{"breadth out of range", FormatYAML, "market:\n  breadth: 140\ntickers:\n  - symbol: A\n", "Breadth"},
		{"descending history", FormatYAML, strings.Join([]string{
			"tickers:",
			"  - symbol: A",
			"    history:",
			"      - {date: 2025-03-04, close: 2}",
			"      - {date: 2025-03-03, close: 1}",
		}, "\n"), "ascending"},
		{"malformed", FormatJSON, `{"tickers": [`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body), tt.format)
			require.ErrorIs(t, err, ErrInvalidBundle)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("a/b/market.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFor("market.csv")
	assert.ErrorIs(t, err, ErrInvalidBundle)
}

func TestListBundles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	paths, err := ListBundles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.yaml")}, paths)

	_, err = ListBundles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLoader_DefaultExchange(t *testing.T) {
	body := `
tickers:
  - symbol: ACME
  - symbol: ASX:BHP
`
	b, err := Loader{DefaultExchange: "NYSE"}.Decode(strings.NewReader(body), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"NYSE:ACME", "ASX:BHP"}, b.Symbols())

	b, err = Loader{DefaultExchange: "NYSE"}.Decode(strings.NewReader("exchange: LSE\n"+body), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "LSE:ACME", b.Symbols()[0], "the bundle's own exchange wins")

	_, err = Loader{DefaultExchange: "NYSE"}.Decode(strings.NewReader("tickers:\n  - symbol: ACME\n  - symbol: NYSE:ACME\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidBundle)
}
