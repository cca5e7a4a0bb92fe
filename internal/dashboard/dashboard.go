// Package dashboard renders a contract analysis as terminal text: header,
// summary counters, risk indicator, clause list, risk assessment, industry
// comparison and negotiation guide, plus the charts that go with them.
package dashboard

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/logger"
	"github.com/WajidKarimm/legalease-ai/internal/render"
	"github.com/WajidKarimm/legalease-ai/internal/state"
)

// ChartRenderer creates chart instances
type ChartRenderer interface {
	Create(name string, spec render.ChartSpec) (render.Chart, error)
}

// MarkdownRenderer turns markdown into display text
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// Chart instance names
const (
	ChartRisk       = "riskChart"
	ChartClauseType = "clauseTypeChart"
	ChartComparison = "comparisonChart"
	ChartRiskTrend  = "riskTrendChart"
)

// Snapshot is everything one render needs
type Snapshot struct {
	ContractID string
	Analysis   *contract.AnalysisResult
	Metadata   *contract.Metadata
	Clauses    []contract.Clause
	Filter     contract.RiskLevel
	Tab        state.Tab
	Industry   string

	Comparison    *contract.ComparisonReport
	ComparisonErr error
	History       *contract.RiskHistory
	Guide         *contract.NegotiationGuide
}

// SnapshotOf captures the current client state
func SnapshotOf(st *state.ClientState) Snapshot {
	return Snapshot{
		ContractID: st.CurrentContractID(),
		Analysis:   st.Analysis(),
		Metadata:   st.Metadata(),
		Clauses:    st.FilteredClauses(),
		Filter:     st.Filter(),
		Tab:        st.Tab(),
		Industry:   st.Industry(),
	}
}

// Options configures a Renderer
type Options struct {
	Color      bool
	DateFormat string
	Logger     *logger.Logger
}

// Renderer draws snapshots. It owns the chart instances it creates.
type Renderer struct {
	charts     ChartRenderer
	markdown   MarkdownRenderer
	log        *logger.Logger
	dateFormat string
	styles     styles

	mu    sync.Mutex
	live  map[string]render.Chart
	drawn map[string]bool
}

// NewRenderer creates a renderer drawing charts and markdown with the
// given implementations
func NewRenderer(charts ChartRenderer, markdown MarkdownRenderer, opts Options) *Renderer {
	r := &Renderer{
		charts:     charts,
		markdown:   markdown,
		log:        opts.Logger,
		dateFormat: opts.DateFormat,
		styles:     newStyles(opts.Color),
		live:       make(map[string]render.Chart),
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	r.log = r.log.WithComponent("dashboard")
	if r.dateFormat == "" {
		r.dateFormat = "January 2, 2006"
	}
	return r
}

// Render draws the header, the tab bar and the active tab
func (r *Renderer) Render(s Snapshot) string {
	if s.Analysis == nil {
		return r.styles.muted.Render(state.MsgNoContract)
	}
	tab := s.Tab
	if tab == "" {
		tab = state.TabOverview
	}

	parts := []string{
		r.Header(s),
		r.TabBar(tab),
		r.Tab(s, tab),
	}
	return strings.Join(parts, "\n\n")
}

// Tab draws a single tab body. Live charts the tab does not draw again
// are destroyed once it is done.
func (r *Renderer) Tab(s Snapshot, tab state.Tab) string {
	r.beginPass()
	defer r.endPass()

	if s.Analysis == nil {
		return r.styles.muted.Render(state.MsgNoContract)
	}
	switch tab {
	case state.TabClauses:
		return r.ClauseList(s)
	case state.TabRisks:
		return r.RiskAssessment(s)
	case state.TabComparison:
		return r.Comparison(s)
	case state.TabNegotiation:
		return r.Negotiation(s)
	default:
		return r.Overview(s)
	}
}

// Close destroys every live chart
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, c := range r.live {
		c.Destroy()
		delete(r.live, name)
	}
}

func (r *Renderer) beginPass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawn = make(map[string]bool)
}

func (r *Renderer) endPass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, c := range r.live {
		if !r.drawn[name] {
			c.Destroy()
			delete(r.live, name)
		}
	}
	r.drawn = nil
}

// chart destroys the previous instance of name before creating the new one
func (r *Renderer) chart(name string, spec render.ChartSpec) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.drawn != nil {
		r.drawn[name] = true
	}

	if old, ok := r.live[name]; ok {
		old.Destroy()
		delete(r.live, name)
	}
	if r.charts == nil {
		return ""
	}

	c, err := r.charts.Create(name, spec)
	if err != nil {
		r.log.WarnWithFields("chart unavailable", []logger.Field{logger.F("chart", name), logger.Error(err)})
		return r.styles.muted.Render("Chart unavailable")
	}
	r.live[name] = c
	return c.View()
}

func (r *Renderer) renderMarkdown(md string) string {
	if r.markdown == nil {
		return md
	}
	out, err := r.markdown.Render(md)
	if err != nil {
		r.log.Warn("markdown render failed: %v", err)
		return md
	}
	return out
}

// formatDate renders an upload date from the analysis, falling back to
// the local upload time
func (r *Renderer) formatDate(s Snapshot) string {
	if raw := strings.TrimSpace(s.Analysis.UploadDate); raw != "" {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format(r.dateFormat)
			}
		}
		return raw
	}
	if s.Metadata != nil && !s.Metadata.UploadDate.IsZero() {
		return s.Metadata.UploadDate.Format(r.dateFormat)
	}
	return "—"
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	active  lipgloss.Style
	muted   lipgloss.Style
	bold    lipgloss.Style
	band    map[contract.Indicator]lipgloss.Style
	badge   map[string]lipgloss.Style
}

func newStyles(color bool) styles {
	s := styles{
		band:  make(map[contract.Indicator]lipgloss.Style),
		badge: make(map[string]lipgloss.Style),
	}
	if !color {
		return s
	}

	red := lipgloss.Color("#EF4444")
	orange := lipgloss.Color("#F59E0B")
	green := lipgloss.Color("#10B981")
	gray := lipgloss.Color("#9CA3AF")
	blue := lipgloss.Color("#3B82F6")

	s.title = lipgloss.NewStyle().Bold(true).Foreground(blue)
	s.section = lipgloss.NewStyle().Bold(true).Underline(true)
	s.active = lipgloss.NewStyle().Bold(true).Reverse(true)
	s.muted = lipgloss.NewStyle().Foreground(gray)
	s.bold = lipgloss.NewStyle().Bold(true)
	s.band[contract.IndicatorRed] = lipgloss.NewStyle().Foreground(red)
	s.band[contract.IndicatorOrange] = lipgloss.NewStyle().Foreground(orange)
	s.band[contract.IndicatorGreen] = lipgloss.NewStyle().Foreground(green)
	s.badge["danger"] = lipgloss.NewStyle().Bold(true).Foreground(red)
	s.badge["warning"] = lipgloss.NewStyle().Bold(true).Foreground(orange)
	s.badge["success"] = lipgloss.NewStyle().Bold(true).Foreground(green)
	s.badge["gray"] = lipgloss.NewStyle().Foreground(gray)
	s.badge["info"] = lipgloss.NewStyle().Bold(true).Foreground(blue)
	return s
}

// severityBadge returns the badge for a finding severity, unknown
// severities get the info badge
func (s styles) severityBadge(severity string) lipgloss.Style {
	if st, ok := s.badge[severity]; ok {
		return st
	}
	return s.badge["info"]
}
