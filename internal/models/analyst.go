package models

import "time"

// RecommendationPeriod holds recommendation-tier counts for one period.
// Period follows the provider convention: "0m" is the current month,
// "-1m" one month ago and so on.
type RecommendationPeriod struct {
	Period     string `json:"period" yaml:"period"`
	StrongBuy  int    `json:"strong_buy" yaml:"strong_buy" validate:"gte=0"`
	Buy        int    `json:"buy" yaml:"buy" validate:"gte=0"`
	Hold       int    `json:"hold" yaml:"hold" validate:"gte=0"`
	Sell       int    `json:"sell" yaml:"sell" validate:"gte=0"`
	StrongSell int    `json:"strong_sell" yaml:"strong_sell" validate:"gte=0"`
}

// Total returns the number of analysts in the period.
func (p RecommendationPeriod) Total() int {
	return p.StrongBuy + p.Buy + p.Hold + p.Sell + p.StrongSell
}

// BullishRatio returns (strong buy + buy) / total and false when no
// analysts are counted.
func (p RecommendationPeriod) BullishRatio() (float64, bool) {
	total := p.Total()
	if total == 0 {
		return 0, false
	}
	return float64(p.StrongBuy+p.Buy) / float64(total), true
}

// RatingAction describes a broker upgrade or downgrade.
type RatingAction string

const (
	ActionUpgrade   RatingAction = "up"
	ActionDowngrade RatingAction = "down"
	ActionMaintain  RatingAction = "main"
	ActionInitiate  RatingAction = "init"
)

// RatingChange is one entry in the upgrade/downgrade history.
type RatingChange struct {
	Date      time.Time    `json:"date" yaml:"date"`
	Firm      string       `json:"firm" yaml:"firm"`
	Action    RatingAction `json:"action" yaml:"action"`
	FromGrade string       `json:"from_grade,omitempty" yaml:"from_grade,omitempty"`
	ToGrade   string       `json:"to_grade,omitempty" yaml:"to_grade,omitempty"`
}

// EPSTrend is the consensus EPS estimate for the current fiscal period
// and its value at fixed lookbacks.
type EPSTrend struct {
	Current   *float64 `json:"current,omitempty" yaml:"current,omitempty"`
	DaysAgo7  *float64 `json:"days_ago_7,omitempty" yaml:"days_ago_7,omitempty"`
	DaysAgo30 *float64 `json:"days_ago_30,omitempty" yaml:"days_ago_30,omitempty"`
	DaysAgo60 *float64 `json:"days_ago_60,omitempty" yaml:"days_ago_60,omitempty"`
	DaysAgo90 *float64 `json:"days_ago_90,omitempty" yaml:"days_ago_90,omitempty"`
}

// EPSRevisions counts estimate revisions over trailing windows.
type EPSRevisions struct {
	Up7    int `json:"up_7" yaml:"up_7" validate:"gte=0"`
	Up30   int `json:"up_30" yaml:"up_30" validate:"gte=0"`
	Down7  int `json:"down_7" yaml:"down_7" validate:"gte=0"`
	Down30 int `json:"down_30" yaml:"down_30" validate:"gte=0"`
}

// Known reports whether any revision was counted.
func (r EPSRevisions) Known() bool {
	return r.Up7+r.Up30+r.Down7+r.Down30 > 0
}

// EarningsSurprise is one quarter's actual vs estimated EPS.
type EarningsSurprise struct {
	Period   string  `json:"period" yaml:"period"`
	Actual   float64 `json:"actual" yaml:"actual"`
	Estimate float64 `json:"estimate" yaml:"estimate"`
}

// AnalystProfile gathers sell-side coverage for a symbol.
type AnalystProfile struct {
	TargetMean *float64 `json:"target_mean,omitempty" yaml:"target_mean,omitempty"`
	TargetHigh *float64 `json:"target_high,omitempty" yaml:"target_high,omitempty"`
	TargetLow  *float64 `json:"target_low,omitempty" yaml:"target_low,omitempty"`

	Recommendations []RecommendationPeriod `json:"recommendations,omitempty" yaml:"recommendations,omitempty" validate:"dive"`
	RatingChanges   []RatingChange         `json:"rating_changes,omitempty" yaml:"rating_changes,omitempty"`
	EPSTrend        EPSTrend               `json:"eps_trend" yaml:"eps_trend"`
	EPSRevisions    EPSRevisions           `json:"eps_revisions" yaml:"eps_revisions"`

	// Most recent quarter last.
	EarningsHistory []EarningsSurprise `json:"earnings_history,omitempty" yaml:"earnings_history,omitempty"`
}

// Period returns the recommendation counts for the given period label.
func (a AnalystProfile) Period(label string) (RecommendationPeriod, bool) {
	for _, p := range a.Recommendations {
		if p.Period == label {
			return p, true
		}
	}
	return RecommendationPeriod{}, false
}

// NetRatingChanges counts upgrades minus downgrades dated within
// [asOf-days, asOf], along with the number of changes inspected.
func (a AnalystProfile) NetRatingChanges(asOf time.Time, days int) (net int, counted int) {
	cutoff := asOf.AddDate(0, 0, -days)
	for _, c := range a.RatingChanges {
		if c.Date.Before(cutoff) || c.Date.After(asOf) {
			continue
		}
		switch c.Action {
		case ActionUpgrade:
			net++
			counted++
		case ActionDowngrade:
			net--
			counted++
		}
	}
	return net, counted
}
