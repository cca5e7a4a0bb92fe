package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/render"
	"github.com/WajidKarimm/legalease-ai/internal/state"
	"github.com/WajidKarimm/legalease-ai/internal/storage"
)

type fakeChart struct {
	name      string
	spec      render.ChartSpec
	destroyed bool
}

func (c *fakeChart) View() string { return "<" + c.name + ">" }
func (c *fakeChart) Destroy() { c.destroyed = true }

type fakeCharts struct {
	created []*fakeChart
}

func (f *fakeCharts) Create(name string, spec render.ChartSpec) (render.Chart, error) {
	c := &fakeChart{name: name, spec: spec}
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCharts) named(name string) []*fakeChart {
	var out []*fakeChart
	for _, c := range f.created {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func sampleAnalysis() *contract.AnalysisResult {
	return &contract.AnalysisResult{
		ContractID: "c-1",
		Title:      "Employment Agreement",
		UploadDate: "2024-03-05T10:00:00Z",
		PageCount:  12,
		Summary: contract.Summary{
			TotalClauses: 3, HighRisk: 1, MediumRisk: 1, LowRisk: 1, OverallRiskScore: 7.5,
		},
		Clauses: []contract.Clause{
			{
				ID: "nc", Type: "Non-Compete", RiskLevel: contract.RiskHigh, RiskScore: 9,
				Content:            strings.Repeat("x", 250),
				Concerns:           []string{"Duration exceeds industry norm"},
				IndustryComparison: &contract.IndustryComparison{Percentile: 85},
			},
			{ID: "ip", Type: "IP Assignment", RiskLevel: contract.RiskMedium, RiskScore: 5, Content: "All inventions"},
			{ID: "pto", Type: "PTO", RiskLevel: contract.RiskLow, RiskScore: 2, Content: "Twenty days"},
		},
		KeyFindings:  []contract.KeyFinding{{Title: "Broad non-compete", Description: "Two years", Severity: "danger"}},
		PlainSummary: "This is a **standard** agreement.",
	}
}

func newTestRenderer(charts ChartRenderer) *Renderer {
	return NewRenderer(charts, render.NewMarkdown(false), Options{DateFormat: "Jan 2, 2006"})
}

func snapshot(a *contract.AnalysisResult) Snapshot {
	return Snapshot{ContractID: a.ContractID, Analysis: a, Clauses: a.Clauses, Tab: state.TabOverview, Industry: "tech"}
}

func TestRiskIndicatorBands(t *testing.T) {
	r := newTestRenderer(nil)
	tests := []struct {
		score float64
		want  string
	}{
		{8, "(red)"},
		{7, "(red)"},
		{5, "(orange)"},
		{4, "(orange)"},
		{2, "(green)"},
	}
	for _, tt := range tests {
		if got := r.RiskIndicator(tt.score); !strings.Contains(got, tt.want) {
			t.Errorf("RiskIndicator(%v) = %q, want %s", tt.score, got, tt.want)
		}
	}

	full := r.RiskIndicator(10)
	if strings.Count(full, "█") != IndicatorWidth {
		t.Errorf("score 10 should fill the bar: %q", full)
	}
	half := r.RiskIndicator(5)
	if strings.Count(half, "█") != IndicatorWidth/2 {
		t.Errorf("score 5 should fill half the bar: %q", half)
	}
}

func TestRenderOverview(t *testing.T) {
	charts := &fakeCharts{}
	r := newTestRenderer(charts)

	out := r.Render(snapshot(sampleAnalysis()))
	for _, want := range []string{
		"Employment Agreement",
		"Uploaded: Mar 5, 2024",
		"Pages: 12",
		"Clauses: 3",
		"[1 Overview]",
		"Overall Risk Score: 7.5/10",
		"High Risk: 1",
		"Broad non-compete",
		"This is a standard agreement.",
		"<riskChart>",
		"<clauseTypeChart>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("overview missing %q:\n%s", want, out)
		}
	}

	doughnut := charts.named(ChartRisk)[0].spec
	if got := doughnut.Series[0].Values; got[0] != 1 || got[1] != 1 || got[2] != 1 {
		t.Errorf("doughnut values = %v", got)
	}
}

func TestRenderEmptyStates(t *testing.T) {
	r := newTestRenderer(&fakeCharts{})
	a := &contract.AnalysisResult{}
	s := snapshot(a)

	if out := r.Tab(s, state.TabOverview); !strings.Contains(out, MsgNoKeyFindings) {
		t.Errorf("missing key findings empty state:\n%s", out)
	}
	if out := r.Tab(s, state.TabClauses); !strings.Contains(out, MsgNoClauses) {
		t.Errorf("missing clauses empty state:\n%s", out)
	}
	if out := r.Tab(s, state.TabRisks); !strings.Contains(out, MsgNoHighRisk) {
		t.Errorf("missing risk empty state:\n%s", out)
	}
	if out := r.Render(s); !strings.Contains(out, "Contract Analysis") {
		t.Errorf("missing default title:\n%s", out)
	}
	if out := r.Render(Snapshot{}); !strings.Contains(out, state.MsgNoContract) {
		t.Errorf("render without analysis = %q", out)
	}
}

func TestClauseList(t *testing.T) {
	r := newTestRenderer(nil)
	a := sampleAnalysis()
	s := snapshot(a)
	s.Clauses = contract.FilterClauses(a.Clauses, contract.RiskHigh)
	s.Filter = contract.RiskHigh

	out := r.ClauseList(s)
	if !strings.Contains(out, strings.Repeat("x", 200)+"...") || strings.Contains(out, strings.Repeat("x", 201)) {
		t.Error("content should be truncated to 200 characters")
	}
	if !strings.Contains(out, "HIGH") || !strings.Contains(out, "Risk: 9/10") || !strings.Contains(out, "Duration exceeds industry norm") {
		t.Errorf("clause card incomplete:\n%s", out)
	}
	if strings.Contains(out, "IP Assignment") {
		t.Error("filtered clause shown")
	}
	if !strings.Contains(out, "filter: high, 1 shown") {
		t.Errorf("filter header missing:\n%s", out)
	}
}

func TestRiskAssessmentPercentile(t *testing.T) {
	out := newTestRenderer(nil).RiskAssessment(snapshot(sampleAnalysis()))
	want := "Your contract is in the 85th percentile (more restrictive than 85% of contracts)"
	if !strings.Contains(out, want) {
		t.Errorf("missing percentile text:\n%s", out)
	}
	if !strings.Contains(out, "1. Non-Compete") || strings.Contains(out, "PTO") {
		t.Errorf("risk panel should list only high clauses:\n%s", out)
	}
}

func TestChartsDestroyedOnRefresh(t *testing.T) {
	charts := &fakeCharts{}
	r := newTestRenderer(charts)
	s := snapshot(sampleAnalysis())

	r.Render(s)
	r.Render(s)

	risk := charts.named(ChartRisk)
	if len(risk) != 2 {
		t.Fatalf("created %d risk charts, want 2", len(risk))
	}
	if !risk[0].destroyed || risk[1].destroyed {
		t.Errorf("old chart destroyed=%v, new chart destroyed=%v", risk[0].destroyed, risk[1].destroyed)
	}

	r.Close()
	for _, c := range charts.created {
		if !c.destroyed {
			t.Errorf("chart %s not destroyed by Close", c.name)
		}
	}
}

func TestComparisonTab(t *testing.T) {
	charts := &fakeCharts{}
	r := newTestRenderer(charts)
	s := snapshot(sampleAnalysis())
	s.Comparison = &contract.ComparisonReport{Comparisons: []contract.Comparison{
		{ClauseType: "Non-Compete", YourTerms: "2 years", IndustryStandard: "1 year", Percentile: 85},
	}}

	out := r.Tab(s, state.TabComparison)
	for _, want := range []string{"Your Contract vs. Tech Industry", "Industry Standard", "85th percentile", "<comparisonChart>"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison missing %q:\n%s", want, out)
		}
	}

	radar := charts.named(ChartComparison)[0].spec
	if radar.Series[1].Label != "Industry Average" || radar.Series[1].Values[0] != 50 || radar.Max != 100 {
		t.Errorf("unexpected radar spec %+v", radar)
	}

	s.ComparisonErr = errors.New("boom")
	if out := r.Tab(s, state.TabComparison); !strings.Contains(out, MsgComparisonErr) {
		t.Errorf("missing comparison error:\n%s", out)
	}
}

func TestNegotiationDefaultGuide(t *testing.T) {
	out := newTestRenderer(nil).Tab(snapshot(sampleAnalysis()), state.TabNegotiation)
	for _, want := range []string{
		"Your Negotiation Strategy",
		"1. Non-Compete Clause",
		"12 months, 25-mile radius",
		"Negotiation Tips",
		"Get all changes in writing before signing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("guide missing %q:\n%s", want, out)
		}
	}
}

func TestGuideMarkdown(t *testing.T) {
	if got := GuideMarkdown(&contract.NegotiationGuide{Markdown: "# Server guide"}); got != "# Server guide" {
		t.Errorf("server markdown not preferred: %q", got)
	}
	if got := GuideMarkdown(&contract.NegotiationGuide{HTML: "<p>x</p>"}); got != "x" {
		t.Errorf("html-only guide = %q", got)
	}
	if got := GuideMarkdown(&contract.NegotiationGuide{HTML: "<p> </p>"}); got != "" {
		t.Errorf("blank html guide = %q", got)
	}
	if got := len(DefaultGuide().Tips); got != 5 {
		t.Errorf("default guide has %d tips", got)
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<h3>Custom strategy</h3><p>Ask for 6 months.</p>", "### Custom strategy\n\nAsk for 6 months."},
		{"<ul><li>One</li><li><strong>Two</strong></li></ul>", "- One\n- **Two**"},
		{"<p>keep <em>this</em></p><script>drop()</script>", "keep *this*"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := HTMLToMarkdown(tt.in); got != tt.want {
			t.Errorf("HTMLToMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNegotiationHTMLGuide(t *testing.T) {
	s := snapshot(sampleAnalysis())
	s.Guide = &contract.NegotiationGuide{HTML: "<h3>Custom strategy</h3><p>Ask for 6 months.</p>"}

	out := newTestRenderer(nil).Tab(s, state.TabNegotiation)
	if strings.Contains(out, MsgGuideReady) {
		t.Errorf("html guide replaced by %q", MsgGuideReady)
	}
	for _, want := range []string{"Custom strategy", "Ask for 6 months."} {
		if !strings.Contains(out, want) {
			t.Errorf("guide missing %q:\n%s", want, out)
		}
	}
}

func TestSkippedChartsDestroyed(t *testing.T) {
	charts := &fakeCharts{}
	r := newTestRenderer(charts)
	s := snapshot(sampleAnalysis())
	s.History = &contract.RiskHistory{Dates: []string{"Jan", "Feb"}, Scores: []float64{7, 6}}

	r.Render(s)
	if len(charts.named(ChartClauseType)) != 1 || len(charts.named(ChartRiskTrend)) != 1 {
		t.Fatalf("expected clause type and trend charts, got %d charts", len(charts.created))
	}

	empty := sampleAnalysis()
	empty.Clauses = nil
	s = snapshot(empty)
	r.Render(s)

	for _, name := range []string{ChartClauseType, ChartRiskTrend} {
		if c := charts.named(name); len(c) != 1 || !c[0].destroyed {
			t.Errorf("%s not destroyed after a render that skipped it", name)
		}
	}
	if risk := charts.named(ChartRisk); len(risk) != 2 || risk[1].destroyed {
		t.Error("redrawn risk chart should stay live")
	}

	r.Tab(s, state.TabClauses)
	if risk := charts.named(ChartRisk); !risk[1].destroyed {
		t.Error("overview chart should be destroyed when another tab is drawn")
	}
}

func TestFindingSeverityBadges(t *testing.T) {
	st := newStyles(true)
	blue := lipgloss.Color("#3B82F6")
	for _, severity := range []string{"info", "notice", ""} {
		if got := st.severityBadge(severity).GetForeground(); got != blue {
			t.Errorf("severityBadge(%q) foreground = %v, want %v", severity, got, blue)
		}
	}
	if got := st.severityBadge("danger").GetForeground(); got != lipgloss.Color("#EF4444") {
		t.Errorf("danger badge foreground = %v", got)
	}

	a := sampleAnalysis()
	a.KeyFindings = []contract.KeyFinding{{Title: "No severity"}, {Title: "Odd", Severity: "notice"}}
	out := newTestRenderer(nil).KeyFindings(a.KeyFindings)
	if !strings.Contains(out, "[info] No severity") || !strings.Contains(out, "[notice] Odd") {
		t.Errorf("unexpected findings:\n%s", out)
	}
}

type fakeSource struct {
	analysis    *contract.AnalysisResult
	analysisErr error
	guideErr    error
	guideIDs    []string
	industry    string
}

func (f *fakeSource) ContractAnalysis(context.Context, string) (*contract.AnalysisResult, error) {
	return f.analysis, f.analysisErr
}

func (f *fakeSource) IndustryComparison(_ context.Context, _, industry string) (*contract.ComparisonReport, error) {
	f.industry = industry
	return &contract.ComparisonReport{Industry: industry}, nil
}

func (f *fakeSource) RiskHistory(context.Context, string) (*contract.RiskHistory, error) {
	return &contract.RiskHistory{Dates: []string{"Jan"}, Scores: []float64{7}}, nil
}

func (f *fakeSource) NegotiationGuide(_ context.Context, _ string, ids []string) (*contract.NegotiationGuide, error) {
	f.guideIDs = ids
	if f.guideErr != nil {
		return nil, f.guideErr
	}
	return &contract.NegotiationGuide{Markdown: "custom"}, nil
}

func loadedState(t *testing.T) *state.ClientState {
	t.Helper()
	ctx := context.Background()
	st, err := state.Load(ctx, storage.NewMemory(), state.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SetAnalysis(ctx, contract.Metadata{ID: "c-1"}, sampleAnalysis()); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestLoaderRequiresContract(t *testing.T) {
	st, _ := state.Load(context.Background(), storage.NewMemory(), state.Options{})
	_, err := NewLoader(&fakeSource{}, st, nil).Load(context.Background())
	if !errors.Is(err, state.ErrNoContract) {
		t.Errorf("Load() error = %v, want ErrNoContract", err)
	}
}

func TestLoaderKeepsFilterAndStoredAnalysis(t *testing.T) {
	st := loadedState(t)
	st.ApplyFilter(contract.RiskLow)

	src := &fakeSource{analysis: sampleAnalysis()}
	snap, err := NewLoader(src, st, nil).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Filter != contract.RiskLow || len(snap.Clauses) != 1 {
		t.Errorf("filter lost on refresh: %s %d", snap.Filter, len(snap.Clauses))
	}
	if snap.History == nil {
		t.Error("overview should load history")
	}

	src.analysisErr = errors.New("offline")
	if _, err := NewLoader(src, st, nil).Load(context.Background()); err != nil {
		t.Errorf("stored analysis should be used when offline: %v", err)
	}
}

func TestLoaderGuideFallback(t *testing.T) {
	st := loadedState(t)
	src := &fakeSource{guideErr: errors.New("500")}
	l := NewLoader(src, st, nil)

	guide := l.Guide(context.Background(), "c-1", sampleAnalysis().Clauses)
	if len(src.guideIDs) != 1 || src.guideIDs[0] != "nc" {
		t.Errorf("guide requested for %v, want [nc]", src.guideIDs)
	}
	if len(guide.Sections) != 2 || guide.Sections[0].Title != "Non-Compete Clause" {
		t.Errorf("expected default guide, got %+v", guide)
	}

	snap := SnapshotOf(st)
	l.Fill(context.Background(), &snap, state.TabComparison)
	if src.industry != "tech" || snap.Comparison == nil {
		t.Errorf("comparison loaded for %q", src.industry)
	}
}
