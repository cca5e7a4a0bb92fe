package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/render"
	"github.com/WajidKarimm/legalease-ai/internal/state"
)

// ContentPreviewLength is how much clause text the list shows
const ContentPreviewLength = 200

// IndicatorWidth is the width of the overall risk bar
const IndicatorWidth = 20

// Industry average plotted against the contract on the comparison chart
const industryBaseline = 50.0

// Empty states
const (
	MsgNoKeyFindings = "No key findings identified."
	MsgNoClauses     = "No clauses found"
	MsgNoHighRisk    = "No high-risk clauses identified."
	MsgComparisonErr = "Failed to load comparison data"
	MsgGuideReady    = "Guide generated successfully"
)

var tabTitles = map[state.Tab]string{
	state.TabOverview:    "Overview",
	state.TabClauses:     "Clauses",
	state.TabRisks:       "Risk Assessment",
	state.TabComparison:  "Comparison",
	state.TabNegotiation: "Negotiation",
}

// Header shows title, upload date, page count and clause count
func (r *Renderer) Header(s Snapshot) string {
	a := s.Analysis
	pages := "—"
	if a.PageCount > 0 {
		pages = fmt.Sprintf("%d", a.PageCount)
	}
	meta := fmt.Sprintf("Uploaded: %s  •  Pages: %s  •  Clauses: %d",
		r.formatDate(s), pages, a.Summary.TotalClauses)
	return r.styles.title.Render(a.DisplayTitle()) + "\n" + r.styles.muted.Render(meta)
}

// TabBar lists the tabs with the active one highlighted
func (r *Renderer) TabBar(active state.Tab) string {
	names := make([]string, 0, len(state.Tabs))
	for i, tab := range state.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tabTitles[tab])
		if tab == active {
			names = append(names, r.styles.active.Render("["+label+"]"))
			continue
		}
		names = append(names, " "+label+" ")
	}
	return strings.Join(names, " ")
}

// Overview combines the counters, indicator, findings, charts and summary
func (r *Renderer) Overview(s Snapshot) string {
	a := s.Analysis
	blocks := []string{
		r.RiskIndicator(a.Summary.OverallRiskScore),
		r.SummaryCounters(a.Summary),
		r.section("Key Findings") + "\n" + r.KeyFindings(a.KeyFindings),
		r.chart(ChartRisk, RiskDistributionChart(a.Summary)),
	}
	if len(a.Clauses) > 0 {
		blocks = append(blocks, r.chart(ChartClauseType, ClauseTypeChart(a.Clauses)))
	}
	if strings.TrimSpace(a.PlainSummary) != "" {
		blocks = append(blocks, r.section("Plain English Summary")+"\n"+r.renderMarkdown(a.PlainSummary))
	}
	if s.History != nil && len(s.History.Scores) > 0 {
		blocks = append(blocks, r.chart(ChartRiskTrend, RiskTrendChart(*s.History)))
	}
	return joinBlocks(blocks)
}

// RiskIndicator shows the overall score and a bar colored by band
func (r *Renderer) RiskIndicator(score float64) string {
	band := contract.RiskIndicator(score)
	cells := int(math.Round(contract.IndicatorFill(score) * IndicatorWidth))
	bar := strings.Repeat("█", cells) + strings.Repeat("░", IndicatorWidth-cells)
	return fmt.Sprintf("Overall Risk Score: %s/10  %s (%s)",
		r.styles.bold.Render(fmt.Sprintf("%.1f", score)), r.styles.band[band].Render(bar), band)
}

// SummaryCounters shows the per-tier clause counts
func (r *Renderer) SummaryCounters(sum contract.Summary) string {
	return fmt.Sprintf("%s %d   %s %d   %s %d",
		r.styles.badge["danger"].Render("High Risk:"), sum.HighRisk,
		r.styles.badge["warning"].Render("Medium Risk:"), sum.MediumRisk,
		r.styles.badge["success"].Render("Low Risk:"), sum.LowRisk)
}

// KeyFindings lists the findings or the empty message
func (r *Renderer) KeyFindings(findings []contract.KeyFinding) string {
	if len(findings) == 0 {
		return r.styles.muted.Render(MsgNoKeyFindings)
	}
	var b strings.Builder
	for i, f := range findings {
		severity := f.Severity
		if severity == "" {
			severity = "info"
		}
		fmt.Fprintf(&b, "%s %s\n", r.styles.severityBadge(severity).Render("["+severity+"]"), r.styles.bold.Render(f.Title))
		if f.Description != "" {
			fmt.Fprintf(&b, "  %s\n", f.Description)
		}
		if i < len(findings)-1 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ClauseList shows the filtered clauses
func (r *Renderer) ClauseList(s Snapshot) string {
	filter := "all"
	if s.Filter != "" {
		filter = s.Filter.String()
	}
	header := r.section("Clauses") + r.styles.muted.Render(fmt.Sprintf("  (filter: %s, %d shown)", filter, len(s.Clauses)))

	if len(s.Clauses) == 0 {
		return header + "\n\n" + r.styles.muted.Render(MsgNoClauses)
	}

	cards := make([]string, 0, len(s.Clauses))
	for i := range s.Clauses {
		cards = append(cards, r.clauseCard(s.Clauses[i]))
	}
	return header + "\n\n" + strings.Join(cards, "\n\n")
}

func (r *Renderer) clauseCard(c contract.Clause) string {
	var b strings.Builder
	badge := r.styles.badge[contract.BadgeClass(c.RiskLevel)].Render(strings.ToUpper(c.RiskLevel.String()))
	fmt.Fprintf(&b, "%s  %s  Risk: %s/10  %s\n",
		r.styles.bold.Render(c.Type), badge, formatNumber(c.RiskScore), r.styles.muted.Render("#"+c.ID))
	fmt.Fprintf(&b, "  %s\n", contract.Truncate(c.Content, ContentPreviewLength))
	if len(c.Concerns) > 0 {
		b.WriteString("  Concerns:\n")
		for _, concern := range c.Concerns {
			fmt.Fprintf(&b, "    • %s\n", concern)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RiskAssessment details the high-risk clauses
func (r *Renderer) RiskAssessment(s Snapshot) string {
	high := contract.HighRiskClauses(s.Analysis.Clauses)
	if len(high) == 0 {
		return r.styles.badge["success"].Render(MsgNoHighRisk)
	}

	var b strings.Builder
	b.WriteString(r.section("High Priority Items") + "\n")
	b.WriteString(r.styles.muted.Render("These clauses require immediate attention and may need negotiation.") + "\n")

	for i, c := range high {
		fmt.Fprintf(&b, "\n%s  %s\n",
			r.styles.bold.Render(fmt.Sprintf("%d. %s", i+1, c.Type)),
			r.styles.badge["danger"].Render(fmt.Sprintf("Risk: %s/10", formatNumber(c.RiskScore))))
		fmt.Fprintf(&b, "  Issue:\n    %s\n", c.Content)
		if len(c.Concerns) > 0 {
			b.WriteString("  Why this is concerning:\n")
			for _, concern := range c.Concerns {
				fmt.Fprintf(&b, "    • %s\n", concern)
			}
		}
		if c.IndustryComparison != nil {
			fmt.Fprintf(&b, "  Industry Standard:\n    %s\n", PercentileText(c.IndustryComparison.Percentile))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// PercentileText describes where a clause sits against the industry
func PercentileText(percentile float64) string {
	p := formatNumber(percentile)
	return fmt.Sprintf("Your contract is in the %sth percentile (more restrictive than %s%% of contracts)", p, p)
}

// Comparison shows the industry table and the radar chart
func (r *Renderer) Comparison(s Snapshot) string {
	title := r.section(fmt.Sprintf("Your Contract vs. %s Industry", capitalize(s.Industry)))
	if s.ComparisonErr != nil {
		return title + "\n\n" + r.styles.badge["danger"].Render(MsgComparisonErr)
	}
	if s.Comparison == nil || len(s.Comparison.Comparisons) == 0 {
		return title + "\n\n" + r.styles.muted.Render("No comparison data available.")
	}

	rows := make([][]string, 0, len(s.Comparison.Comparisons))
	for _, c := range s.Comparison.Comparisons {
		rows = append(rows, []string{
			c.ClauseType,
			c.YourTerms,
			c.IndustryStandard,
			r.styles.badge[contract.PercentileBand(c.Percentile)].Render(formatNumber(c.Percentile) + "th percentile"),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Clause Type", "Your Contract", "Industry Standard", "Percentile").
		Rows(rows...)

	return joinBlocks([]string{
		title,
		t.Render(),
		r.chart(ChartComparison, ComparisonChart(*s.Comparison)),
	})
}

// Negotiation renders the guide, or the built-in one when none was loaded
func (r *Renderer) Negotiation(s Snapshot) string {
	guide := s.Guide
	if guide == nil {
		guide = DefaultGuide()
	}
	md := GuideMarkdown(guide)
	if md == "" {
		return r.styles.muted.Render(MsgGuideReady)
	}
	return r.renderMarkdown(md)
}

// RiskDistributionChart is the doughnut of clauses per risk tier
func RiskDistributionChart(sum contract.Summary) render.ChartSpec {
	return render.ChartSpec{
		Kind:   render.Doughnut,
		Title:  "Risk Distribution",
		Labels: []string{"High Risk", "Medium Risk", "Low Risk"},
		Series: []render.Series{{
			Label:  "Number of Clauses",
			Values: []float64{float64(sum.HighRisk), float64(sum.MediumRisk), float64(sum.LowRisk)},
		}},
	}
}

// ClauseTypeChart is the bar chart of clause counts per type
func ClauseTypeChart(clauses []contract.Clause) render.ChartSpec {
	counts := contract.CountByType(clauses)
	labels := make([]string, 0, len(counts))
	values := make([]float64, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Type)
		values = append(values, float64(c.Count))
	}
	return render.ChartSpec{
		Kind:   render.Bar,
		Title:  "Clause Types Distribution",
		Labels: labels,
		Series: []render.Series{{Label: "Number of Clauses", Values: values}},
	}
}

// ComparisonChart plots percentiles against the industry average of 50
func ComparisonChart(report contract.ComparisonReport) render.ChartSpec {
	labels := make([]string, 0, len(report.Comparisons))
	yours := make([]float64, 0, len(report.Comparisons))
	baseline := make([]float64, 0, len(report.Comparisons))
	for _, c := range report.Comparisons {
		labels = append(labels, c.ClauseType)
		yours = append(yours, c.Percentile)
		baseline = append(baseline, industryBaseline)
	}
	return render.ChartSpec{
		Kind:   render.Radar,
		Title:  "Contract Comparison (Percentile)",
		Labels: labels,
		Series: []render.Series{
			{Label: "Your Contract", Values: yours},
			{Label: "Industry Average", Values: baseline},
		},
		Max: 100,
	}
}

// RiskTrendChart is the line of historical overall scores
func RiskTrendChart(history contract.RiskHistory) render.ChartSpec {
	return render.ChartSpec{
		Kind:   render.Line,
		Title:  "Risk Score Over Time",
		Labels: history.Dates,
		Series: []render.Series{{Label: "Risk Score", Values: history.Scores}},
		Max:    contract.MaxRiskScore,
	}
}

func (r *Renderer) section(title string) string {
	return r.styles.section.Render(title)
}

func joinBlocks(blocks []string) string {
	kept := blocks[:0]
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}

// formatNumber prints whole numbers without decimals
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
