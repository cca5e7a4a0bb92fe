package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
)

// formatScore prints whole scores without decimals
func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}

// getRiskEmoji returns emoji for risk levels using go-termfmt
func getRiskEmoji(level contract.RiskLevel, opts *termfmt.TerminalOptions) string {
	switch level {
	case contract.RiskHigh:
		return termfmt.GetEmoji("error", opts)
	case contract.RiskMedium:
		return termfmt.GetEmoji("warning", opts)
	case contract.RiskLow:
		return termfmt.GetEmoji("success", opts)
	default:
		return termfmt.GetEmoji("info", opts)
	}
}

// getSeverityEmoji maps finding severities, which use badge names
func getSeverityEmoji(severity string, opts *termfmt.TerminalOptions) string {
	switch strings.ToLower(severity) {
	case "danger", "high", "error":
		return termfmt.GetEmoji("error", opts)
	case "warning", "medium":
		return termfmt.GetEmoji("warning", opts)
	case "success", "low":
		return termfmt.GetEmoji("success", opts)
	default:
		return termfmt.GetEmoji("insight", opts)
	}
}

// createRiskBar draws a 0..10 score as a go-termfmt bar
func createRiskBar(score float64, opts *termfmt.TerminalOptions) string {
	return termfmt.CreateConfidenceBar(contract.IndicatorFill(score), opts)
}

// generateRecommendations turns the riskiest clauses into next steps
func generateRecommendations(analysis *contract.AnalysisResult) []string {
	var recommendations []string

	for _, c := range contract.SortedByScore(contract.HighRiskClauses(analysis.Clauses)) {
		recommendations = append(recommendations,
			fmt.Sprintf("Negotiate the %s clause (risk %s/10)", c.Type, formatScore(c.RiskScore)))
	}

	for _, c := range analysis.Clauses {
		if c.IndustryComparison != nil && c.IndustryComparison.Percentile > 70 && c.RiskLevel != contract.RiskHigh {
			recommendations = append(recommendations,
				fmt.Sprintf("Compare the %s clause with industry terms (%sth percentile)",
					c.Type, formatScore(c.IndustryComparison.Percentile)))
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"No high-risk clauses found; review medium-risk terms before signing",
			"Get all changes in writing before signing")
	}

	return recommendations
}

// escapeCSVString flattens newlines and truncates long text
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return contract.Truncate(s, 97)
}
