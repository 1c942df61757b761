package signals

// Category descriptions shown alongside scores.
const (
	DescriptionTechnical   = "Price and volume evidence: trend averages, oscillators, band position, pullbacks and recoveries."
	DescriptionFundamental = "Valuation and quality ratios: PEG, free cash flow yield, EV/EBITDA, margins, returns and balance sheet."
	DescriptionAnalyst     = "Sell-side evidence: price-target upside, recommendation consensus, upgrades and estimate revisions."
)

// ScoreCard is the composite result for one symbol.
type ScoreCard struct {
	Symbol      string      `json:"symbol"`
	Technical   Aggregation `json:"technical"`
	Fundamental Aggregation `json:"fundamental"`
	Analyst     Aggregation `json:"analyst"`
	Signals     []Signal    `json:"signals"`
	Composite   float64     `json:"composite"`
	Rating      string      `json:"rating"`
}

// CategorySignals returns the signals that fired in one category.
func (c ScoreCard) CategorySignals(cat Category) []Signal {
	var out []Signal
	for _, s := range c.Signals {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// Scorer runs every detector and aggregates the results.
type Scorer struct {
	thresholds Thresholds
	groups     map[Category][]GroupCap
}

// NewScorer creates a Scorer with the default technical groups.
func NewScorer(th Thresholds) *Scorer {
	return NewScorerWithGroups(th, DefaultGroupCaps())
}

// NewScorerWithGroups creates a Scorer with custom technical groups.
// Fundamental and analyst signals are never grouped.
func NewScorerWithGroups(th Thresholds, technical []GroupCap) *Scorer {
	return &Scorer{
		thresholds: th,
		groups: map[Category][]GroupCap{
			CategoryTechnical: technical,
		},
	}
}

// Thresholds returns a copy of the scorer's thresholds.
func (s *Scorer) Thresholds() Thresholds {
	return s.thresholds
}

// Detect runs the detectors of one category in registry order.
func Detect(cat Category, in Inputs, th Thresholds) []Signal {
	var detectors []Detector
	switch cat {
	case CategoryTechnical:
		detectors = TechnicalDetectors()
	case CategoryFundamental:
		detectors = FundamentalDetectors()
	case CategoryAnalyst:
		detectors = AnalystDetectors()
	}

	var out []Signal
	for _, d := range detectors {
		if sig := d.Detect(in, th); sig != nil {
			out = append(out, *sig)
		}
	}
	return out
}

// Score evaluates every category and combines the capped totals into a
// composite between 0 and 100.
func (s *Scorer) Score(symbol string, in Inputs) ScoreCard {
	card := ScoreCard{Symbol: symbol}
	if card.Symbol == "" {
		card.Symbol = in.Snapshot.Symbol
	}

	aggs := make(map[Category]Aggregation, len(Categories))
	for _, cat := range Categories {
		fired := Detect(cat, in, s.thresholds)
		card.Signals = append(card.Signals, fired...)
		aggs[cat] = Aggregate(cat, fired, s.thresholds.Caps.Cap(cat), s.groups[cat])
	}
	card.Technical = aggs[CategoryTechnical]
	card.Fundamental = aggs[CategoryFundamental]
	card.Analyst = aggs[CategoryAnalyst]

	total := card.Technical.Total + card.Fundamental.Total + card.Analyst.Total
	card.Composite = round(clamp(total, 0, 100), 1)
	card.Rating = RatingFor(card.Composite)
	return card
}

// RatingFor labels a composite score.
func RatingFor(composite float64) string {
	switch {
	case composite >= 70:
		return "strong"
	case composite >= 50:
		return "favourable"
	case composite >= 30:
		return "neutral"
	default:
		return "weak"
	}
}
