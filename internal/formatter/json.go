package formatter

import (
	"encoding/json"
	"time"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	a := report.Analysis

	output := &JSONOutput{
		ContractID:   report.ContractID,
		Title:        a.DisplayTitle(),
		Summary:      createSummary(a),
		Clauses:      createClauseOutputs(a.Clauses),
		KeyFindings:  a.KeyFindings,
		PlainSummary: a.PlainSummary,
		Comparison:   report.Comparison,
		History:      report.History,
		Guide:        report.Guide,
	}
	if report.Metadata != nil {
		output.Filename = report.Metadata.Filename
		if !report.Metadata.UploadDate.IsZero() {
			uploaded := report.Metadata.UploadDate
			output.UploadedAt = &uploaded
		}
	}
	if !report.GeneratedAt.IsZero() {
		generated := report.GeneratedAt
		output.GeneratedAt = &generated
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the exported report structure
type JSONOutput struct {
	ContractID   string                     `json:"contract_id,omitempty"`
	Title        string                     `json:"title"`
	Filename     string                     `json:"filename,omitempty"`
	UploadedAt   *time.Time                 `json:"uploaded_at,omitempty"`
	GeneratedAt  *time.Time                 `json:"generated_at,omitempty"`
	Summary      *SummaryOutput             `json:"summary"`
	Clauses      []*ClauseOutput            `json:"clauses"`
	KeyFindings  []contract.KeyFinding      `json:"key_findings"`
	PlainSummary string                     `json:"plain_summary,omitempty"`
	Comparison   *contract.ComparisonReport `json:"comparison,omitempty"`
	History      *contract.RiskHistory      `json:"history,omitempty"`
	Guide        *contract.NegotiationGuide `json:"negotiation_guide,omitempty"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	TotalClauses     int     `json:"total_clauses"`
	HighRisk         int     `json:"high_risk"`
	MediumRisk       int     `json:"medium_risk"`
	LowRisk          int     `json:"low_risk"`
	OverallRiskScore float64 `json:"overall_risk_score"`
	Indicator        string  `json:"indicator"`
}

// ClauseOutput is a clause with its derived presentation fields
type ClauseOutput struct {
	contract.Clause
	Badge     string `json:"badge"`
	Indicator string `json:"indicator"`
}

// createSummary creates summary output
func createSummary(a *contract.AnalysisResult) *SummaryOutput {
	return &SummaryOutput{
		TotalClauses:     a.Summary.TotalClauses,
		HighRisk:         a.Summary.HighRisk,
		MediumRisk:       a.Summary.MediumRisk,
		LowRisk:          a.Summary.LowRisk,
		OverallRiskScore: a.Summary.OverallRiskScore,
		Indicator:        string(contract.RiskIndicator(a.Summary.OverallRiskScore)),
	}
}

// createClauseOutputs creates clause outputs in their original order
func createClauseOutputs(clauses []contract.Clause) []*ClauseOutput {
	outputs := make([]*ClauseOutput, 0, len(clauses))
	for _, c := range clauses {
		outputs = append(outputs, &ClauseOutput{
			Clause:    c,
			Badge:     contract.BadgeClass(c.RiskLevel),
			Indicator: string(contract.RiskIndicator(c.RiskScore)),
		})
	}
	return outputs
}
