package models

import "time"

// FundamentalProfile holds valuation and quality ratios.
// Nil fields are unknown. Percent-like fields are decimal fractions
// (0.15 == 15%) and DebtToEquity is a plain ratio (0.5 == 50%); the ingest
// layer converts provider scales exactly once before these are populated.
type FundamentalProfile struct {
	PEG             *float64 `json:"peg,omitempty" yaml:"peg,omitempty"`
	FreeCashFlow    *float64 `json:"free_cash_flow,omitempty" yaml:"free_cash_flow,omitempty"`
	MarketCap       *float64 `json:"market_cap,omitempty" yaml:"market_cap,omitempty"`
	EVToEBITDA      *float64 `json:"ev_to_ebitda,omitempty" yaml:"ev_to_ebitda,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty" yaml:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty" yaml:"operating_margin,omitempty"`
	ROE             *float64 `json:"roe,omitempty" yaml:"roe,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty" yaml:"debt_to_equity,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty" yaml:"current_ratio,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty" yaml:"revenue_growth,omitempty"`

	// Period series used by the momentum analyzer, oldest first.
	Quarters []QuarterResult `json:"quarters,omitempty" yaml:"quarters,omitempty"`

	// Ownership context.
	InstitutionalOwnership      *float64 `json:"institutional_ownership,omitempty" yaml:"institutional_ownership,omitempty"`
	InstitutionalOwnershipPrior *float64 `json:"institutional_ownership_prior,omitempty" yaml:"institutional_ownership_prior,omitempty"`

	InsiderTransactions []InsiderTransaction `json:"insider_transactions,omitempty" yaml:"insider_transactions,omitempty"`
}

// QuarterResult is one reported quarter.
type QuarterResult struct {
	Period    string   `json:"period" yaml:"period"` // e.g. "2025Q2"
	Revenue   *float64 `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	NetIncome *float64 `json:"net_income,omitempty" yaml:"net_income,omitempty"`
	Earnings  *float64 `json:"earnings,omitempty" yaml:"earnings,omitempty"` // EPS actual
}

// InsiderTransaction is a single reported insider trade. Shares is
// positive for purchases and negative for sales.
type InsiderTransaction struct {
	Date   time.Time `json:"date" yaml:"date"`
	Shares float64   `json:"shares" yaml:"shares"`
}

// Float returns a pointer to v. Handy for building profiles in code and tests.
func Float(v float64) *float64 {
	return &v
}
