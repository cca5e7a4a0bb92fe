package contract

import (
	"reflect"
	"testing"
)

func TestRiskIndicator(t *testing.T) {
	tests := []struct {
		score float64
		want  Indicator
	}{
		{8, IndicatorRed},
		{7, IndicatorRed},
		{10, IndicatorRed},
		{6.9, IndicatorOrange},
		{5, IndicatorOrange},
		{4, IndicatorOrange},
		{3.99, IndicatorGreen},
		{2, IndicatorGreen},
		{0, IndicatorGreen},
	}

	for _, tt := range tests {
		if got := RiskIndicator(tt.score); got != tt.want {
			t.Errorf("RiskIndicator(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestIndicatorFill(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{5, 0.5},
		{10, 1},
		{12, 1},
		{-1, 0},
		{7.5, 0.75},
	}

	for _, tt := range tests {
		if got := IndicatorFill(tt.score); got != tt.want {
			t.Errorf("IndicatorFill(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestFilterClauses(t *testing.T) {
	clauses := []Clause{
		{ID: "c1", RiskLevel: RiskHigh},
		{ID: "c2", RiskLevel: RiskMedium},
		{ID: "c3", RiskLevel: RiskHigh},
		{ID: "c4", RiskLevel: RiskLow},
	}

	tests := []struct {
		name  string
		level RiskLevel
		want  []string
	}{
		{"all", "", []string{"c1", "c2", "c3", "c4"}},
		{"high keeps order", RiskHigh, []string{"c1", "c3"}},
		{"medium", RiskMedium, []string{"c2"}},
		{"low", RiskLow, []string{"c4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClauseIDs(FilterClauses(clauses, tt.level))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterClauses(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestFilterClausesDoesNotAlias(t *testing.T) {
	clauses := []Clause{{ID: "c1", RiskLevel: RiskLow}}
	out := FilterClauses(clauses, "")
	out[0].ID = "changed"
	if clauses[0].ID != "c1" {
		t.Error("FilterClauses returned a slice sharing the input's backing array")
	}
}

func TestParseRiskLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   RiskLevel
		wantOK bool
	}{
		{"all", "", true},
		{"", "", true},
		{"high", RiskHigh, true},
		{"low", RiskLow, true},
		{"critical", "critical", false},
	}

	for _, tt := range tests {
		got, ok := ParseRiskLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRiskLevel(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCountByType(t *testing.T) {
	clauses := []Clause{
		{Type: "termination"},
		{Type: "non-compete"},
		{Type: "termination"},
	}

	want := []TypeCount{{"termination", 2}, {"non-compete", 1}}
	if got := CountByType(clauses); !reflect.DeepEqual(got, want) {
		t.Errorf("CountByType() = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 200); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("Truncate() = %q, want abc...", got)
	}
}

func TestBadgeClassAndPercentileBand(t *testing.T) {
	if BadgeClass(RiskHigh) != "danger" || BadgeClass(RiskMedium) != "warning" || BadgeClass(RiskLow) != "success" {
		t.Error("unexpected badge mapping")
	}
	if PercentileBand(20) != "success" || PercentileBand(50) != "warning" || PercentileBand(85) != "danger" {
		t.Error("unexpected percentile bands")
	}
}

func TestSortedByScore(t *testing.T) {
	clauses := []Clause{{ID: "a", RiskScore: 2}, {ID: "b", RiskScore: 9}, {ID: "c", RiskScore: 5}}
	got := ClauseIDs(SortedByScore(clauses))
	want := []string{"b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedByScore() = %v, want %v", got, want)
	}
	if clauses[0].ID != "a" {
		t.Error("SortedByScore modified its input")
	}
}
