package signals

import "fmt"

// FundamentalDetectors returns the fundamental detectors in evaluation order.
func FundamentalDetectors() []Detector {
	return []Detector{
		{Name: "peg", Category: CategoryFundamental, Detect: DetectPEG},
		{Name: "fcf_yield", Category: CategoryFundamental, Detect: DetectFCFYield},
		{Name: "ev_to_ebitda", Category: CategoryFundamental, Detect: DetectEVToEBITDA},
		{Name: "profit_margin", Category: CategoryFundamental, Detect: DetectProfitMargin},
		{Name: "roe", Category: CategoryFundamental, Detect: DetectROE},
		{Name: "debt_to_equity", Category: CategoryFundamental, Detect: DetectDebtToEquity},
		{Name: "current_ratio", Category: CategoryFundamental, Detect: DetectCurrentRatio},
		{Name: "revenue_growth", Category: CategoryFundamental, Detect: DetectRevenueGrowth},
	}
}

// tierNames labels the strong, moderate and weak tiers of a ratio detector.
type tierNames [3]string

// higherIsBetter grades v against descending tier floors.
func higherIsBetter(cat Category, v float64, cfg TierConfig, names tierNames, describe func(float64) string) *Signal {
	if !finite(v) {
		return nil
	}
	switch {
	case names[0] != "" && v >= cfg.Strong:
		return newSignal(cat, names[0], cfg.StrongPoints, describe(v), v)
	case names[1] != "" && v >= cfg.Moderate:
		return newSignal(cat, names[1], cfg.ModPoints, describe(v), v)
	case names[2] != "" && v >= cfg.Weak:
		return newSignal(cat, names[2], cfg.WeakPoints, describe(v), v)
	}
	return nil
}

// lowerIsBetter grades v against ascending tier ceilings.
func lowerIsBetter(cat Category, v float64, cfg TierConfig, names tierNames, describe func(float64) string) *Signal {
	if !finite(v) {
		return nil
	}
	switch {
	case names[0] != "" && v < cfg.Strong:
		return newSignal(cat, names[0], cfg.StrongPoints, describe(v), v)
	case names[1] != "" && v < cfg.Moderate:
		return newSignal(cat, names[1], cfg.ModPoints, describe(v), v)
	case names[2] != "" && v < cfg.Weak:
		return newSignal(cat, names[2], cfg.WeakPoints, describe(v), v)
	}
	return nil
}

func pct(label string) func(float64) string {
	return func(v float64) string { return fmt.Sprintf("%s %.1f%%", label, v*100) }
}

func multiple(label string) func(float64) string {
	return func(v float64) string { return fmt.Sprintf("%s %.2f", label, v) }
}

// DetectPEG rewards a low price/earnings-to-growth ratio. Non-positive
// PEG means shrinking or negative earnings and is not graded.
func DetectPEG(in Inputs, th Thresholds) *Signal {
	p := in.Fundamentals.PEG
	if p == nil || !finite(*p) || *p <= 0 {
		return nil
	}
	cfg := th.PEG
	switch {
	case *p <= cfg.Max:
		return newSignal(CategoryFundamental, "Attractive PEG", cfg.Weight,
			fmt.Sprintf("PEG %.2f is at or below %.1f", *p, cfg.Max), *p)
	case *p <= cfg.Good:
		return newSignal(CategoryFundamental, "PEG Reasonable", round(cfg.Weight/2, 2),
			fmt.Sprintf("PEG %.2f is at or below %.1f", *p, cfg.Good), *p)
	}
	return nil
}

// DetectFCFYield grades free cash flow against market capitalisation.
func DetectFCFYield(in Inputs, th Thresholds) *Signal {
	f := in.Fundamentals
	if f.FreeCashFlow == nil {
		return nil
	}
	marketCap := in.Snapshot.MarketCap
	if f.MarketCap != nil {
		marketCap = *f.MarketCap
	}
	yield, ok := ratio(*f.FreeCashFlow, marketCap)
	if !ok {
		return nil
	}
	return higherIsBetter(CategoryFundamental, yield, th.FCFYield,
		tierNames{"High FCF Yield", "Solid FCF Yield", "Positive FCF Yield"}, pct("FCF yield"))
}

// DetectEVToEBITDA rewards a low enterprise-value multiple.
func DetectEVToEBITDA(in Inputs, th Thresholds) *Signal {
	v := in.Fundamentals.EVToEBITDA
	if v == nil || *v <= 0 {
		return nil
	}
	return lowerIsBetter(CategoryFundamental, *v, th.EVToEBITDA,
		tierNames{"Low EV/EBITDA", "Reasonable EV/EBITDA", ""}, multiple("EV/EBITDA"))
}

func DetectProfitMargin(in Inputs, th Thresholds) *Signal {
	v := in.Fundamentals.ProfitMargin
	if v == nil {
		return nil
	}
	return higherIsBetter(CategoryFundamental, *v, th.ProfitMargin,
		tierNames{"High Profit Margin", "Healthy Profit Margin", ""}, pct("Profit margin"))
}

func DetectROE(in Inputs, th Thresholds) *Signal {
	v := in.Fundamentals.ROE
	if v == nil {
		return nil
	}
	return higherIsBetter(CategoryFundamental, *v, th.ROE,
		tierNames{"Strong ROE", "Good ROE", ""}, pct("Return on equity"))
}

// DetectDebtToEquity rewards low leverage. Negative values mean negative
// equity and are not graded.
func DetectDebtToEquity(in Inputs, th Thresholds) *Signal {
	v := in.Fundamentals.DebtToEquity
	if v == nil || *v < 0 {
		return nil
	}
	return lowerIsBetter(CategoryFundamental, *v, th.DebtToEquity,
		tierNames{"Low Debt", "Moderate Debt", ""}, multiple("Debt/equity"))
}

func DetectCurrentRatio(in Inputs, th Thresholds) *Signal {
	v := in.Fundamentals.CurrentRatio
	if v == nil || *v <= 0 {
		return nil
	}
	return higherIsBetter(CategoryFundamental, *v, th.CurrentRatio,
		tierNames{"Strong Liquidity", "Adequate Liquidity", ""}, multiple("Current ratio"))
}

func DetectRevenueGrowth(in Inputs, th Thresholds) *Signal {
	v := in.Fundamentals.RevenueGrowth
	if v == nil {
		return nil
	}
	return higherIsBetter(CategoryFundamental, *v, th.Revenue,
		tierNames{"Strong Revenue Growth", "Revenue Growth", ""}, pct("Revenue growth"))
}
