package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/dashboard"
	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/state"
)

// Industries offered by the comparison tab
var Industries = []string{"tech", "finance", "healthcare", "retail", "manufacturing"}

// filterCycle is the order the filter key walks through
var filterCycle = []contract.RiskLevel{"", contract.RiskHigh, contract.RiskMedium, contract.RiskLow}

// Message types for the dashboard
type snapshotMsg struct {
	snapshot dashboard.Snapshot
	err      error
}

type tabFilledMsg struct {
	snapshot dashboard.Snapshot
}

// DashboardOptions configures the dashboard TUI
type DashboardOptions struct {
	Theme Theme
	Color bool
}

// DashboardModel is the interactive contract dashboard
type DashboardModel struct {
	ctx      context.Context
	loader   *dashboard.Loader
	renderer *dashboard.Renderer
	state    *state.ClientState
	styles   Styles

	viewport viewport.Model
	spinner  spinner.Model
	ready    bool
	loading  bool
	quitting bool

	snapshot dashboard.Snapshot
	loaded   bool
	err      error
	status   string

	// Clause selection on the clauses tab
	selected int
	asked    *contract.Clause

	// industry the comparison in snapshot was loaded for
	comparedIndustry string
}

// NewDashboardModel creates the dashboard model
func NewDashboardModel(ctx context.Context, loader *dashboard.Loader, renderer *dashboard.Renderer, st *state.ClientState, opts DashboardOptions) *DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	styles := NewStyles(opts.Theme, opts.Color)
	s.Style = styles.Info

	return &DashboardModel{
		ctx:      ctx,
		loader:   loader,
		renderer: renderer,
		state:    st,
		styles:   styles,
		spinner:  s,
		loading:  true,
	}
}

// Init starts loading the analysis
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// Update handles messages and navigation
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case snapshotMsg:
		return m.handleSnapshot(msg)
	case tabFilledMsg:
		return m.handleTabFilled(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.spinner.View() + " Loading dashboard..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.footer())
}

// AskedClause returns the clause the user chose to ask about, if any
func (m *DashboardModel) AskedClause() (contract.Clause, bool) {
	if m.asked == nil {
		return contract.Clause{}, false
	}
	return *m.asked, true
}

// Err returns the error that prevented the dashboard from loading
func (m *DashboardModel) Err() error {
	if m.loaded {
		return nil
	}
	return m.err
}

func (m *DashboardModel) loadCmd() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		snap, err := m.loader.Load(ctx)
		return snapshotMsg{snapshot: snap, err: err}
	}
}

func (m *DashboardModel) fillCmd(tab state.Tab) tea.Cmd {
	ctx := m.ctx
	snap := m.snapshot
	return func() tea.Msg {
		m.loader.Fill(ctx, &snap, tab)
		return tabFilledMsg{snapshot: snap}
	}
}

// handleWindowResize sizes the viewport to leave room for the footer
func (m *DashboardModel) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	height := max(msg.Height-2, 1)
	if !m.ready {
		m.viewport = viewport.New(msg.Width, height)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = height
	}
	m.refreshContent()
	return m, nil
}

// handleKeyPress handles keyboard input
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return m.handleQuit()
	case "1", "2", "3", "4", "5":
		return m.switchTab(state.Tabs[int(key[0]-'1')])
	case "tab":
		return m.switchTab(m.tabAt(1))
	case "shift+tab":
		return m.switchTab(m.tabAt(-1))
	case "f":
		return m.cycleFilter()
	case "i":
		return m.cycleIndustry()
	case "r":
		m.loading = true
		m.status = "Refreshing..."
		return m, m.loadCmd()
	case "n", "p":
		return m.moveSelection(key)
	case "a":
		return m.askAboutClause()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *DashboardModel) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.renderer.Close()
	return m, tea.Quit
}

func (m *DashboardModel) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		m.status = msg.err.Error()
		m.refreshContent()
		return m, nil
	}

	m.err = nil
	m.loaded = true
	m.status = ""
	m.snapshot = msg.snapshot
	m.comparedIndustry = ""
	if m.snapshot.Tab == state.TabComparison {
		m.comparedIndustry = m.snapshot.Industry
	}
	m.clampSelection()
	m.refreshContent()
	return m, nil
}

func (m *DashboardModel) handleTabFilled(msg tabFilledMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.status = ""

	// keep the view settings made while loading
	filled := msg.snapshot
	filled.Clauses = m.snapshot.Clauses
	filled.Filter = m.snapshot.Filter
	filled.Tab = m.snapshot.Tab
	filled.Industry = m.snapshot.Industry
	m.snapshot = filled

	m.refreshContent()
	return m, nil
}

func (m *DashboardModel) switchTab(tab state.Tab) (tea.Model, tea.Cmd) {
	if err := m.state.SwitchTab(tab); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.snapshot.Tab = tab
	m.viewport.GotoTop()
	m.refreshContent()

	if !m.loaded || !m.needsData(tab) {
		return m, nil
	}
	if tab == state.TabComparison {
		m.comparedIndustry = m.snapshot.Industry
	}
	m.loading = true
	return m, m.fillCmd(tab)
}

// needsData reports whether tab has data that is not loaded yet
func (m *DashboardModel) needsData(tab state.Tab) bool {
	switch tab {
	case state.TabOverview:
		return m.snapshot.History == nil
	case state.TabComparison:
		return m.comparedIndustry != m.snapshot.Industry ||
			(m.snapshot.Comparison == nil && m.snapshot.ComparisonErr == nil)
	case state.TabNegotiation:
		return m.snapshot.Guide == nil
	default:
		return false
	}
}

func (m *DashboardModel) tabAt(offset int) state.Tab {
	current := 0
	for i, t := range state.Tabs {
		if t == m.snapshot.Tab {
			current = i
		}
	}
	n := len(state.Tabs)
	return state.Tabs[((current+offset)%n+n)%n]
}

func (m *DashboardModel) cycleFilter() (tea.Model, tea.Cmd) {
	next := filterCycle[0]
	for i, level := range filterCycle {
		if level == m.state.Filter() {
			next = filterCycle[(i+1)%len(filterCycle)]
		}
	}
	m.state.ApplyFilter(next)
	m.snapshot.Clauses = m.state.FilteredClauses()
	m.snapshot.Filter = next
	m.selected = 0
	m.refreshContent()
	return m, nil
}

func (m *DashboardModel) cycleIndustry() (tea.Model, tea.Cmd) {
	next := Industries[0]
	for i, industry := range Industries {
		if industry == m.state.Industry() {
			next = Industries[(i+1)%len(Industries)]
		}
	}
	m.state.SetIndustry(next)
	m.snapshot.Industry = next
	m.status = "Industry: " + next

	if m.loaded && m.snapshot.Tab == state.TabComparison {
		m.comparedIndustry = next
		m.loading = true
		return m, m.fillCmd(state.TabComparison)
	}
	m.refreshContent()
	return m, nil
}

func (m *DashboardModel) moveSelection(key string) (tea.Model, tea.Cmd) {
	if m.snapshot.Tab != state.TabClauses || len(m.snapshot.Clauses) == 0 {
		return m, nil
	}
	if key == "n" {
		m.selected++
	} else {
		m.selected--
	}
	m.clampSelection()

	c := m.snapshot.Clauses[m.selected]
	if err := m.state.SelectClause(m.ctx, c.ID); err != nil {
		m.status = err.Error()
	}
	m.refreshContent()
	return m, nil
}

// askAboutClause leaves a chat context for the selected clause and exits
func (m *DashboardModel) askAboutClause() (tea.Model, tea.Cmd) {
	if m.snapshot.Tab != state.TabClauses || len(m.snapshot.Clauses) == 0 {
		return m, nil
	}
	c := m.snapshot.Clauses[m.selected]
	if err := m.state.SetChatContext(m.ctx, c); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.asked = &c
	return m.handleQuit()
}

func (m *DashboardModel) clampSelection() {
	if m.selected >= len(m.snapshot.Clauses) {
		m.selected = len(m.snapshot.Clauses) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// refreshContent re-renders the snapshot into the viewport
func (m *DashboardModel) refreshContent() {
	if !m.ready {
		return
	}
	if !m.loaded {
		text := "Loading dashboard..."
		if m.err != nil {
			text = m.styles.Error.Render(emoji.GetEmoji("error") + " " + m.err.Error())
		}
		m.viewport.SetContent(text)
		return
	}

	content := m.renderer.Render(m.snapshot)
	if m.snapshot.Tab == state.TabClauses && len(m.snapshot.Clauses) > 0 {
		c := m.snapshot.Clauses[m.selected]
		content += "\n\n" + m.styles.Selected.Render(fmt.Sprintf("%s Selected: %s #%s", emoji.GetEmoji("target"), c.Type, c.ID))
	}
	m.viewport.SetContent(content)
}

func (m *DashboardModel) footer() string {
	keys := []string{"1-5/tab views", "f filter", "i industry", "r refresh"}
	if m.snapshot.Tab == state.TabClauses {
		keys = append(keys, "n/p select", "a ask")
	}
	keys = append(keys, "↑↓ scroll", "q quit")

	line := m.styles.Muted.Render(strings.Join(keys, " • "))
	if m.loading {
		line = m.spinner.View() + " " + line
	}
	if m.status != "" {
		line += "  " + m.styles.Info.Render(m.status)
	}
	return line
}

// RunDashboard runs the dashboard until the user quits. It returns the
// clause the user asked to chat about, if any.
func RunDashboard(model *DashboardModel) (*contract.Clause, error) {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	if err := model.Err(); err != nil {
		return nil, err
	}
	if c, ok := model.AskedClause(); ok {
		return &c, nil
	}
	return nil, nil
}
