package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
)

// previewLength is how much clause text the text report shows
const previewLength = 120

// terminalFormatter formats a report as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

// NewTerminalWithOptions creates a terminal formatter with explicit go-termfmt options
func NewTerminalWithOptions(opts *termfmt.TerminalOptions) Formatter {
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	a := report.Analysis
	var b strings.Builder

	f.writeHeader(&b, a.DisplayTitle())
	f.writeSummary(&b, report)

	if len(a.KeyFindings) > 0 {
		f.writeKeyFindings(&b, a.KeyFindings)
	}
	if len(a.Clauses) > 0 {
		f.writeClauses(&b, a.Clauses)
	}
	if report.Comparison != nil && len(report.Comparison.Comparisons) > 0 {
		f.writeComparison(&b, report.Comparison)
	}
	if strings.TrimSpace(a.PlainSummary) != "" {
		b.WriteString(termfmt.GetEmoji("summary", f.opts) + " Plain English Summary\n")
		b.WriteString(a.PlainSummary + "\n\n")
	}

	f.writeRecommendations(&b, a)

	return []byte(b.String()), nil
}

// writeHeader writes the title inside a box
func (f *terminalFormatter) writeHeader(b *strings.Builder, title string) {
	width := len([]rune(title))
	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + title + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeSummary writes the counts and overall score as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, report *Report) {
	a := report.Analysis
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	score := a.Summary.OverallRiskScore
	items := []termfmt.TreeItem{}
	if report.ContractID != "" {
		items = append(items, termfmt.TreeItem{Label: "Contract", Value: report.ContractID})
	}
	if report.Metadata != nil && report.Metadata.Filename != "" {
		items = append(items, termfmt.TreeItem{Label: "File", Value: report.Metadata.Filename})
	}
	if a.PageCount > 0 {
		items = append(items, termfmt.TreeItem{Label: "Pages", Value: fmt.Sprintf("%d", a.PageCount)})
	}
	items = append(items,
		termfmt.TreeItem{Label: "Total Clauses", Value: fmt.Sprintf("%d", a.Summary.TotalClauses)},
		termfmt.TreeItem{Label: "High Risk", Value: fmt.Sprintf("%d", a.Summary.HighRisk)},
		termfmt.TreeItem{Label: "Medium Risk", Value: fmt.Sprintf("%d", a.Summary.MediumRisk)},
		termfmt.TreeItem{Label: "Low Risk", Value: fmt.Sprintf("%d", a.Summary.LowRisk)},
		termfmt.TreeItem{
			Label: "Overall Risk",
			Value: fmt.Sprintf("%.1f/10 %s (%s)", score, createRiskBar(score, f.opts), contract.RiskIndicator(score)),
			Last:  true,
		},
	)

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeKeyFindings writes findings with their descriptions as children
func (f *terminalFormatter) writeKeyFindings(b *strings.Builder, findings []contract.KeyFinding) {
	symbol := termfmt.GetEmoji("insights", f.opts)
	b.WriteString(symbol + " Key Findings\n")

	items := make([]termfmt.TreeItem, 0, len(findings))
	for i, finding := range findings {
		item := termfmt.TreeItem{
			Label: fmt.Sprintf("%s %s", getSeverityEmoji(finding.Severity, f.opts), finding.Title),
			Last:  i == len(findings)-1,
		}
		if finding.Description != "" {
			item.Children = []termfmt.TreeItem{{Label: finding.Description, Last: true}}
		}
		items = append(items, item)
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeClauses lists clauses by descending risk score
func (f *terminalFormatter) writeClauses(b *strings.Builder, clauses []contract.Clause) {
	opts := termfmt.DefaultOptions()
	opts.Emoji = false
	symbol := termfmt.GetEmoji("pattern", opts)
	b.WriteString(symbol + " Clauses\n")

	sorted := contract.SortedByScore(clauses)
	items := make([]termfmt.TreeItem, 0, len(sorted))
	for i, c := range sorted {
		children := []termfmt.TreeItem{
			{Label: createRiskBar(c.RiskScore, f.opts) + " " + contract.Truncate(c.Content, previewLength)},
		}
		for _, concern := range c.Concerns {
			children = append(children, termfmt.TreeItem{Label: "• " + concern})
		}
		children[len(children)-1].Last = true

		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("%s %s [%s]", getRiskEmoji(c.RiskLevel, f.opts), c.Type, strings.ToUpper(c.RiskLevel.String())),
			Value:    fmt.Sprintf("(%s/10)", formatScore(c.RiskScore)),
			Children: children,
			Last:     i == len(sorted)-1,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeComparison writes one line per compared clause type
func (f *terminalFormatter) writeComparison(b *strings.Builder, report *contract.ComparisonReport) {
	symbol := termfmt.GetEmoji("scale", f.opts)
	title := "Industry Comparison"
	if report.Industry != "" {
		title += " (" + report.Industry + ")"
	}
	b.WriteString(symbol + " " + title + "\n")

	for i, c := range report.Comparisons {
		prefix := "├─"
		if i == len(report.Comparisons)-1 {
			prefix = "└─"
		}
		fmt.Fprintf(b, "%s %s: %s vs %s (%sth percentile)\n",
			prefix, c.ClauseType, c.YourTerms, c.IndustryStandard, formatScore(c.Percentile))
	}
	b.WriteString("\n")
}

// writeRecommendations writes the top three next steps
func (f *terminalFormatter) writeRecommendations(b *strings.Builder, analysis *contract.AnalysisResult) {
	recommendations := generateRecommendations(analysis)

	symbol := termfmt.GetEmoji("recommendations", f.opts)
	b.WriteString(symbol + " Recommendations\n")

	for i, rec := range recommendations {
		if i < 3 {
			b.WriteString("• " + rec + "\n")
		}
	}
}
