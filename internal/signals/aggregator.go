package signals

import (
	"math"
	"strings"
)

// GroupCap limits how much a family of correlated signals may contribute
// to its category. A signal belongs to the first group with a keyword
// that appears in its name, compared case-insensitively.
type GroupCap struct {
	Name      string   `toml:"name" json:"name"`
	Keywords  []string `toml:"keywords" json:"keywords"`
	MaxPoints float64  `toml:"max_points" json:"max_points"`
}

// matches reports whether the lower-cased signal name contains a keyword.
func (g GroupCap) matches(lowerName string) bool {
	for _, k := range g.Keywords {
		if k != "" && strings.Contains(lowerName, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// DefaultGroupCaps returns the technical signal groups in matching order.
func DefaultGroupCaps() []GroupCap {
	return []GroupCap{
		{Name: "moving_average", Keywords: []string{"golden cross", "ma200", "ma50", "moving average"}, MaxPoints: 15},
		{Name: "momentum", Keywords: []string{"rsi", "macd", "stochastic", "momentum"}, MaxPoints: 12},
		{Name: "price_position", Keywords: []string{"52-week", "bollinger"}, MaxPoints: 12},
		{Name: "pullback", Keywords: []string{"pullback"}, MaxPoints: 15},
		{Name: "recovery", Keywords: []string{"recover", "higher low", "bounce"}, MaxPoints: 10},
	}
}

// GroupContribution reports what one group added to the category total.
type GroupContribution struct {
	Name      string  `json:"name"`
	Raw       float64 `json:"raw"`
	Points    float64 `json:"points"`
	Discarded float64 `json:"discarded"`
	Signals   int     `json:"signals"`
}

// Aggregation is the capped total for one category with its breakdown.
type Aggregation struct {
	Category  Category            `json:"category"`
	Total     float64             `json:"total"`
	Cap       float64             `json:"cap"`
	Groups    []GroupContribution `json:"groups,omitempty"`
	Ungrouped float64             `json:"ungrouped"`
	// Points dropped by group caps and by the category ceiling.
	Discarded float64 `json:"discarded"`
}

// Aggregate sums signal points in order, limiting each group to its
// MaxPoints and the total to categoryCap. Signals outside every group add
// their full points. An empty list yields zero.
func Aggregate(cat Category, signals []Signal, categoryCap float64, groups []GroupCap) Aggregation {
	agg := Aggregation{Category: cat, Cap: categoryCap}
	contrib := make([]GroupContribution, len(groups))
	for i, g := range groups {
		contrib[i].Name = g.Name
	}

	sum := 0.0
	for _, s := range signals {
		points := s.Points
		if !finite(points) || points < 0 {
			points = 0
		}
		name := strings.ToLower(s.Name)

		matched := -1
		for i, g := range groups {
			if g.matches(name) {
				matched = i
				break
			}
		}
		if matched < 0 {
			agg.Ungrouped += points
			sum += points
			continue
		}

		c := &contrib[matched]
		remaining := math.Max(0, groups[matched].MaxPoints-c.Points)
		added := math.Min(points, remaining)
		c.Raw += points
		c.Points += added
		c.Discarded += points - added
		c.Signals++
		agg.Discarded += points - added
		sum += added
	}

	for _, c := range contrib {
		if c.Signals > 0 {
			agg.Groups = append(agg.Groups, c)
		}
	}

	agg.Total = clamp(sum, 0, math.Max(0, categoryCap))
	agg.Discarded += sum - agg.Total
	agg.Total = round(agg.Total, 2)
	agg.Discarded = round(agg.Discarded, 2)
	return agg
}
