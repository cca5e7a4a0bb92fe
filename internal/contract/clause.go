package contract

import (
	"sort"
	"strings"
)

// Indicator is the color band of a risk score
type Indicator string

const (
	IndicatorRed    Indicator = "red"
	IndicatorOrange Indicator = "orange"
	IndicatorGreen  Indicator = "green"
)

// Risk indicator thresholds, inclusive
const (
	RedThreshold    = 7.0
	OrangeThreshold = 4.0
	MaxRiskScore    = 10.0
)

// RiskIndicator maps a 0..10 score to its color band
func RiskIndicator(score float64) Indicator {
	switch {
	case score >= RedThreshold:
		return IndicatorRed
	case score >= OrangeThreshold:
		return IndicatorOrange
	default:
		return IndicatorGreen
	}
}

// IndicatorFill returns the filled fraction of the indicator bar, clamped to [0, 1]
func IndicatorFill(score float64) float64 {
	fill := score / MaxRiskScore
	if fill < 0 {
		return 0
	}
	if fill > 1 {
		return 1
	}
	return fill
}

// BadgeClass maps a risk level to the status used for badges
func BadgeClass(level RiskLevel) string {
	switch level {
	case RiskHigh:
		return "danger"
	case RiskMedium:
		return "warning"
	case RiskLow:
		return "success"
	default:
		return "gray"
	}
}

// FilterClauses returns the clauses at the given level in their original
// order. An empty level returns all clauses.
func FilterClauses(clauses []Clause, level RiskLevel) []Clause {
	if level == "" {
		out := make([]Clause, len(clauses))
		copy(out, clauses)
		return out
	}

	out := make([]Clause, 0, len(clauses))
	for i := range clauses {
		if clauses[i].RiskLevel == level {
			out = append(out, clauses[i])
		}
	}
	return out
}

// HighRiskClauses is FilterClauses(clauses, RiskHigh)
func HighRiskClauses(clauses []Clause) []Clause {
	return FilterClauses(clauses, RiskHigh)
}

// ClauseIDs returns the ids of the given clauses
func ClauseIDs(clauses []Clause) []string {
	ids := make([]string, 0, len(clauses))
	for i := range clauses {
		ids = append(ids, clauses[i].ID)
	}
	return ids
}

// FindClause returns the clause with the given id
func FindClause(clauses []Clause, id string) (Clause, bool) {
	for i := range clauses {
		if clauses[i].ID == id {
			return clauses[i], true
		}
	}
	return Clause{}, false
}

// TypeCount is the number of clauses of one type
type TypeCount struct {
	Type  string
	Count int
}

// CountByType counts clauses per type in first-seen order
func CountByType(clauses []Clause) []TypeCount {
	index := make(map[string]int)
	var counts []TypeCount
	for i := range clauses {
		t := clauses[i].Type
		if pos, ok := index[t]; ok {
			counts[pos].Count++
			continue
		}
		index[t] = len(counts)
		counts = append(counts, TypeCount{Type: t, Count: 1})
	}
	return counts
}

// SortedByScore returns a copy of clauses ordered by descending risk score
func SortedByScore(clauses []Clause) []Clause {
	out := make([]Clause, len(clauses))
	copy(out, clauses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RiskScore > out[j].RiskScore
	})
	return out
}

// Truncate shortens text to maxLength runes and appends "..."
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

// PercentileBand classifies a comparison percentile: below 30 is favorable,
// above 70 is restrictive.
func PercentileBand(percentile float64) string {
	switch {
	case percentile < 30:
		return "success"
	case percentile > 70:
		return "danger"
	default:
		return "warning"
	}
}

// DisplayTitle returns the title or the dashboard fallback
func (a *AnalysisResult) DisplayTitle() string {
	if strings.TrimSpace(a.Title) == "" {
		return "Contract Analysis"
	}
	return a.Title
}
