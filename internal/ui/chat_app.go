package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/WajidKarimm/legalease-ai/internal/chat"
	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/dashboard"
	"github.com/WajidKarimm/legalease-ai/internal/emoji"
)

type replyMsg struct {
	reply *contract.ChatMessage
	err   error
}

type clearedMsg struct {
	err error
}

// transcriptLine is a message or a local notice shown in the chat
type transcriptLine struct {
	role    contract.Role
	content string
	sources []contract.Source
	failed  bool
}

// ChatOptions configures the chat TUI
type ChatOptions struct {
	Theme    Theme
	Color    bool
	Markdown dashboard.MarkdownRenderer
}

// ChatModel is the interactive chat about the current contract
type ChatModel struct {
	ctx      context.Context
	session  *chat.Session
	markdown dashboard.MarkdownRenderer
	styles   Styles

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	thinking bool
	quitting bool

	transcript []transcriptLine
}

// NewChatModel creates a chat model for a started session
func NewChatModel(ctx context.Context, session *chat.Session, opts ChatOptions) *ChatModel {
	styles := NewStyles(opts.Theme, opts.Color)

	in := textinput.New()
	in.Placeholder = "Ask about your contract"
	in.Prompt = emoji.GetEmoji("user") + " > "
	in.Focus()
	in.CharLimit = 2000
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Info

	m := &ChatModel{
		ctx:      ctx,
		session:  session,
		markdown: opts.Markdown,
		styles:   styles,
		input:    in,
		spinner:  s,
	}
	for _, msg := range session.Messages() {
		m.transcript = append(m.transcript, transcriptLine{role: msg.Role, content: msg.Content, sources: msg.Sources})
	}
	return m
}

// Init starts the cursor blinking
func (m *ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and input
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.handleSubmit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case replyMsg:
		return m.handleReply(msg)
	case clearedMsg:
		m.thinking = false
		if msg.err != nil {
			m.transcript = append(m.transcript, transcriptLine{role: contract.RoleAssistant, content: msg.err.Error(), failed: true})
		} else {
			m.transcript = []transcriptLine{{role: contract.RoleAssistant, content: chat.MsgCleared}}
		}
		m.refreshContent()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the transcript and the input line
func (m *ChatModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting chat..."
	}

	var bottom string
	if m.thinking {
		bottom = m.spinner.View() + " " + m.styles.Muted.Render("Thinking...")
	} else {
		bottom = m.input.View() + "\n" + m.styles.Muted.Render("Enter send • /clear reset • PgUp/PgDn scroll • Esc quit")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), bottom)
}

func (m *ChatModel) header() string {
	return m.styles.Title.Render(fmt.Sprintf("%s Chat about contract %s", emoji.GetEmoji("chat"), m.session.ContractID()))
}

func (m *ChatModel) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	height := max(msg.Height-4, 1)
	if !m.ready {
		m.viewport = viewport.New(msg.Width, height)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = height
	}
	m.input.Width = max(msg.Width-8, 10)
	m.refreshContent()
	return m, nil
}

func (m *ChatModel) handleSubmit() (tea.Model, tea.Cmd) {
	if m.thinking {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	switch strings.ToLower(text) {
	case "exit", "quit":
		m.quitting = true
		return m, tea.Quit
	case "/clear":
		m.thinking = true
		return m, m.clearCmd()
	}

	m.transcript = append(m.transcript, transcriptLine{role: contract.RoleUser, content: text})
	m.thinking = true
	m.refreshContent()
	return m, tea.Batch(m.sendCmd(text), m.spinner.Tick)
}

func (m *ChatModel) sendCmd(text string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		reply, err := m.session.Send(ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *ChatModel) clearCmd() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return clearedMsg{err: m.session.Clear(ctx)}
	}
}

func (m *ChatModel) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.thinking = false
	switch {
	case errors.Is(msg.err, chat.ErrSendInProgress), errors.Is(msg.err, chat.ErrEmptyMessage):
		// nothing was sent
	case msg.err != nil:
		m.transcript = append(m.transcript, transcriptLine{role: contract.RoleAssistant, content: chat.MsgSendFailed, failed: true})
	default:
		m.transcript = append(m.transcript, transcriptLine{
			role:    contract.RoleAssistant,
			content: msg.reply.Content,
			sources: msg.reply.Sources,
		})
	}
	m.refreshContent()
	return m, nil
}

func (m *ChatModel) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *ChatModel) renderTranscript() string {
	blocks := make([]string, 0, len(m.transcript))
	for _, line := range m.transcript {
		blocks = append(blocks, m.renderLine(line))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *ChatModel) renderLine(line transcriptLine) string {
	if line.role == contract.RoleUser {
		return m.styles.User.Render("You:") + " " + line.content
	}
	if line.failed {
		return m.styles.Error.Render(emoji.GetEmoji("error") + " " + line.content)
	}

	body := line.content
	if m.markdown != nil {
		if rendered, err := m.markdown.Render(line.content); err == nil {
			body = rendered
		}
	}

	var b strings.Builder
	b.WriteString(m.styles.Assistant.Render(emoji.GetEmoji("assistant")+" LegalEase:") + " " + body)
	for _, src := range line.sources {
		b.WriteString("\n  " + m.styles.Muted.Render(emoji.GetEmoji("source")+" "+src.Title))
		if src.Excerpt != "" {
			b.WriteString(m.styles.Muted.Render(": " + contract.Truncate(src.Excerpt, 120)))
		}
	}
	return b.String()
}

// RunChat runs the chat until the user quits
func RunChat(model *ChatModel) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	_, err := p.Run()
	return err
}
