package formatter

import (
	"fmt"
	"strings"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/dashboard"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	a := report.Analysis
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.DisplayTitle())
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	}

	f.writeTableOfContents(&b, report)
	f.writeSummaryTable(&b, report)

	if len(a.KeyFindings) > 0 {
		f.writeKeyFindings(&b, a.KeyFindings)
	}
	if len(a.Clauses) > 0 {
		f.writeClauseSections(&b, a.Clauses)
	}
	f.writeRiskAssessment(&b, a.Clauses)

	if report.Comparison != nil && len(report.Comparison.Comparisons) > 0 {
		f.writeComparison(&b, report.Comparison)
	}
	if strings.TrimSpace(a.PlainSummary) != "" {
		b.WriteString("## Plain English Summary\n\n")
		b.WriteString(a.PlainSummary + "\n\n")
	}
	if guide := dashboard.GuideMarkdown(report.Guide); guide != "" {
		b.WriteString("## Negotiation Guide\n\n")
		b.WriteString(demoteHeadings(guide) + "\n")
	}

	f.writeRecommendations(&b, a)

	return []byte(b.String()), nil
}

// writeTableOfContents links the sections present in the report
func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, report *Report) {
	a := report.Analysis
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")

	if len(a.KeyFindings) > 0 {
		b.WriteString("- [Key Findings](#key-findings)\n")
	}
	if len(a.Clauses) > 0 {
		b.WriteString("- [Clauses](#clauses)\n")
	}
	b.WriteString("- [Risk Assessment](#risk-assessment)\n")
	if report.Comparison != nil && len(report.Comparison.Comparisons) > 0 {
		b.WriteString("- [Industry Comparison](#industry-comparison)\n")
	}
	if strings.TrimSpace(a.PlainSummary) != "" {
		b.WriteString("- [Plain English Summary](#plain-english-summary)\n")
	}
	if dashboard.GuideMarkdown(report.Guide) != "" {
		b.WriteString("- [Negotiation Guide](#negotiation-guide)\n")
	}

	b.WriteString("- [Recommendations](#recommendations)\n\n")
}

// writeSummaryTable writes the counts and score as a table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *Report) {
	a := report.Analysis
	b.WriteString("## Summary\n\n")

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	if report.ContractID != "" {
		fmt.Fprintf(b, "| Contract | %s |\n", report.ContractID)
	}
	if report.Metadata != nil && report.Metadata.Filename != "" {
		fmt.Fprintf(b, "| File | %s |\n", escapeCell(report.Metadata.Filename))
	}
	if a.PageCount > 0 {
		fmt.Fprintf(b, "| Pages | %d |\n", a.PageCount)
	}
	fmt.Fprintf(b, "| Total Clauses | %d |\n", a.Summary.TotalClauses)
	fmt.Fprintf(b, "| High Risk | %d |\n", a.Summary.HighRisk)
	fmt.Fprintf(b, "| Medium Risk | %d |\n", a.Summary.MediumRisk)
	fmt.Fprintf(b, "| Low Risk | %d |\n", a.Summary.LowRisk)
	fmt.Fprintf(b, "| Overall Risk Score | %.1f/10 (%s) |\n\n",
		a.Summary.OverallRiskScore, contract.RiskIndicator(a.Summary.OverallRiskScore))
}

func (f *markdownFormatter) writeKeyFindings(b *strings.Builder, findings []contract.KeyFinding) {
	b.WriteString("## Key Findings\n\n")
	for _, finding := range findings {
		fmt.Fprintf(b, "- **%s**", finding.Title)
		if finding.Description != "" {
			fmt.Fprintf(b, ": %s", finding.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// writeClauseSections writes one section per clause in document order
func (f *markdownFormatter) writeClauseSections(b *strings.Builder, clauses []contract.Clause) {
	b.WriteString("## Clauses\n\n")

	for _, c := range clauses {
		fmt.Fprintf(b, "### %s (%s, %s/10)\n\n", c.Type, strings.ToUpper(c.RiskLevel.String()), formatScore(c.RiskScore))
		if c.Content != "" {
			fmt.Fprintf(b, "> %s\n\n", strings.ReplaceAll(c.Content, "\n", "\n> "))
		}
		if len(c.Concerns) > 0 {
			b.WriteString("**Concerns**:\n")
			for _, concern := range c.Concerns {
				fmt.Fprintf(b, "- %s\n", concern)
			}
			b.WriteString("\n")
		}
	}
}

func (f *markdownFormatter) writeRiskAssessment(b *strings.Builder, clauses []contract.Clause) {
	b.WriteString("## Risk Assessment\n\n")

	high := contract.HighRiskClauses(clauses)
	if len(high) == 0 {
		b.WriteString(dashboard.MsgNoHighRisk + "\n\n")
		return
	}
	for i, c := range high {
		fmt.Fprintf(b, "%d. **%s** (Risk: %s/10)", i+1, c.Type, formatScore(c.RiskScore))
		if c.IndustryComparison != nil {
			fmt.Fprintf(b, ": %s", dashboard.PercentileText(c.IndustryComparison.Percentile))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeComparison(b *strings.Builder, report *contract.ComparisonReport) {
	b.WriteString("## Industry Comparison\n\n")
	if report.Industry != "" {
		fmt.Fprintf(b, "Industry: %s\n\n", report.Industry)
	}
	b.WriteString("| Clause Type | Your Contract | Industry Standard | Percentile |\n")
	b.WriteString("|-------------|---------------|-------------------|------------|\n")
	for _, c := range report.Comparisons {
		fmt.Fprintf(b, "| %s | %s | %s | %sth |\n",
			escapeCell(c.ClauseType), escapeCell(c.YourTerms), escapeCell(c.IndustryStandard), formatScore(c.Percentile))
	}
	b.WriteString("\n")
}

// writeRecommendations writes actionable recommendations
func (f *markdownFormatter) writeRecommendations(b *strings.Builder, analysis *contract.AnalysisResult) {
	b.WriteString("## Recommendations\n\n")

	for i, rec := range generateRecommendations(analysis) {
		fmt.Fprintf(b, "%d. %s\n", i+1, rec)
	}

	b.WriteString("\n---\n")
	b.WriteString("*This analysis is informational and is not legal advice.*\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}

// demoteHeadings nests a standalone document under a level-two section
func demoteHeadings(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			lines[i] = "#" + line
		}
	}
	return strings.Join(lines, "\n")
}
