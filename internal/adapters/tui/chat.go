package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/PabloGalante/finbot/internal/app/chat"
	"github.com/PabloGalante/finbot/internal/domain"
	"github.com/PabloGalante/finbot/internal/markdown"
)

// UI configuration constants
const (
	sidebarWidth       = 32
	inputCharLimit     = 4000
	defaultWidth       = 100
	defaultHeight      = 40
	chromeHeight       = 6 // header + input + hint rows
	minTranscriptWidth = 20
)

// Style definitions
var (
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle     = lipgloss.NewStyle().Bold(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	sidebarStyle  = lipgloss.NewStyle().Width(sidebarWidth).PaddingRight(1).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("240"))
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Program encapsulates the FinBot terminal program.
type Program struct {
	model chatModel
}

func NewProgram(svc *chat.Service) *Program {
	return &Program{model: initialModel(svc)}
}

func (p *Program) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// chatModel holds all shell state. Session data itself stays inside the
// chat service; the model only reads snapshots of it.
type chatModel struct {
	svc *chat.Service

	input      textinput.Model
	transcript viewport.Model
	spin       spinner.Model

	focus  focusArea
	cursor int // sidebar selection across sessions + topics

	// waiting mirrors the service's in-flight flag for painting; pending
	// echoes the user text optimistically until the reply lands.
	waiting bool
	pending string

	width  int
	height int
}

func initialModel(svc *chat.Service) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about budgeting, taxes, investments..."
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Prompt = promptStyle.Render("> ")
	input.Width = defaultWidth - sidebarWidth - 6

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = accentStyle

	m := chatModel{
		svc:        svc,
		input:      input,
		transcript: viewport.New(defaultWidth-sidebarWidth, defaultHeight-chromeHeight),
		spin:       spin,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.refreshTranscript()
	return m
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Message type definitions
type replyMsg struct {
	sessionID domain.SessionID
	out       *chat.SendOutput
	err       error
}

// sendCmd runs the two-phase send off the UI goroutine. The session id
// is captured here, at call start.
func (m chatModel) sendCmd(sessionID domain.SessionID, text string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		out, err := svc.Send(context.Background(), sessionID, text)
		return replyMsg{sessionID: sessionID, out: out, err: err}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Keys are routed exactly once: to a binding, the input, or the
		// transcript.
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := m.width - sidebarWidth - 2
		if w < minTranscriptWidth {
			w = minTranscriptWidth
		}
		h := m.height - chromeHeight
		if h < 3 {
			h = 3
		}
		m.transcript.Width = w
		m.transcript.Height = h
		m.input.Width = w - 4
		m.refreshTranscript()

	case replyMsg:
		m.waiting = false
		m.pending = ""
		// Invalid input and in-flight rejections are silently dropped;
		// the service has already decided nothing should change.
		m.refreshTranscript()
		m.transcript.GotoBottom()

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.transcript, cmd = m.transcript.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m chatModel) handleKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil

	case "ctrl+n":
		m.svc.NewSession(context.Background())
		m.cursor = 0
		m.refreshTranscript()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

// forwardToInput hands an unbound key to the textinput.
func (m chatModel) forwardToInput(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleSidebarKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	sessions := m.svc.Sessions()
	total := len(sessions) + len(suggestedTopics)

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < total-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(sessions) {
			m.svc.Select(sessions[m.cursor].ID)
			m.focus = focusInput
			m.input.Focus()
			m.refreshTranscript()
			return m, nil
		}
		topic := suggestedTopics[m.cursor-len(sessions)]
		m.focus = focusInput
		m.input.Focus()
		return m.submit("Tell me about " + topic)
	case "d", "delete", "backspace":
		if m.cursor < len(sessions) {
			m.svc.Delete(context.Background(), sessions[m.cursor].ID)
			if m.cursor > 0 {
				m.cursor--
			}
			m.refreshTranscript()
		}
	case "n":
		m.svc.NewSession(context.Background())
		m.cursor = 0
		m.refreshTranscript()
	default:
		// Anything else scrolls the transcript.
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m chatModel) handleInputKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit(m.input.Value())
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// Bare digits pick a shortcut; digits typed mid-sentence pass
		// through to the input.
		if strings.TrimSpace(m.input.Value()) == "" {
			shortcuts := m.shortcuts()
			n, _ := strconv.Atoi(msg.String())
			if n >= 1 && n <= len(shortcuts) {
				return m.submit(shortcuts[n-1])
			}
		}
	}
	return m.forwardToInput(msg)
}

// submit validates nothing itself: blank input and in-flight sends are
// rejected inside the service, and the shell simply stays put.
func (m chatModel) submit(text string) (chatModel, tea.Cmd) {
	if strings.TrimSpace(text) == "" || m.waiting {
		return m, nil
	}

	active := m.svc.Active()
	if active == nil {
		return m, nil
	}

	m.waiting = true
	m.pending = text
	m.input.Reset()
	m.refreshTranscript()
	m.transcript.GotoBottom()

	return m, tea.Batch(m.sendCmd(active.ID, text), m.spin.Tick)
}

// shortcuts lists what the digit keys map to: suggestions of the last
// model message, then the quick-start queries while the session is fresh.
func (m chatModel) shortcuts() []string {
	active := m.svc.Active()
	if active == nil || m.waiting {
		return nil
	}

	var out []string
	for i := len(active.Messages) - 1; i >= 0; i-- {
		msg := active.Messages[i]
		if msg.Role == domain.RoleModel {
			out = append(out, msg.Suggestions...)
			break
		}
	}
	if len(active.Messages) == 1 {
		out = append(out, quickStartQueries...)
	}
	return out
}

func (m *chatModel) refreshTranscript() {
	m.transcript.SetContent(m.renderTranscript())
}

// ─────────────────────────────────────────
// View
// ─────────────────────────────────────────

func (m chatModel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderConversation())
}

func (m chatModel) renderSidebar() string {
	var b strings.Builder

	b.WriteString(boldStyle.Render("FinBot"))
	b.WriteString(dimStyle.Render("  financial literacy chat"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("RECENT CHATS"))
	b.WriteString("\n")

	sessions := m.svc.Sessions()
	activeID := m.svc.ActiveID()
	for i, sess := range sessions {
		title := runewidth.Truncate(sess.Title, sidebarWidth-6, "…")
		line := "  " + title
		if sess.ID == activeID {
			line = activeStyle.Render("▸ " + title)
		}
		if m.focus == focusSidebar && m.cursor == i {
			line = selectedStyle.Render("» " + title)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("TOPICS"))
	b.WriteString("\n")
	for i, topic := range suggestedTopics {
		idx := len(sessions) + i
		line := "  " + topic
		if m.focus == focusSidebar && m.cursor == idx {
			line = selectedStyle.Render("» " + topic)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("OFFICIAL PORTALS"))
	b.WriteString("\n")
	for _, portal := range officialPortals {
		b.WriteString(dimStyle.Render("  " + portal.Name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab focus · ctrl+n new · d delete"))

	return sidebarStyle.Height(m.height).Render(b.String())
}

func (m chatModel) renderConversation() string {
	active := m.svc.Active()

	title := "FinBot"
	if active != nil {
		title = active.Title
	}

	status := accentStyle.Render("● ai active")
	if m.waiting {
		status = m.spin.View() + dimStyle.Render("thinking...")
	}
	header := boldStyle.Render(title) + "  " + status

	inputLine := m.input.View()
	if m.waiting {
		inputLine = dimStyle.Render("(waiting for reply, input disabled)")
	}

	hint := dimStyle.Render("enter send · 1-9 pick a suggestion · ctrl+c quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		m.transcript.View(),
		"",
		inputLine,
		hint,
	)
}

func (m chatModel) renderTranscript() string {
	active := m.svc.Active()
	if active == nil {
		return dimStyle.Render("No active session. Press ctrl+n to start a new discussion.")
	}

	width := m.transcript.Width
	var b strings.Builder

	for _, msg := range active.Messages {
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n")
	}

	if m.pending != "" {
		b.WriteString(userStyle.Render("You"))
		b.WriteString("\n")
		b.WriteString(m.pending)
		b.WriteString("\n\n")
		b.WriteString(botStyle.Render("FinBot"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("..."))
		b.WriteString("\n")
	}

	// A fresh session shows the quick-start queries under the greeting.
	if len(active.Messages) == 1 && m.pending == "" {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("QUICK START"))
		b.WriteString("\n")
		offset := len(active.Messages[0].Suggestions)
		for i, q := range quickStartQueries {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d. ", offset+i+1)))
			b.WriteString(q)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m chatModel) renderMessage(msg *domain.Message, width int) string {
	var b strings.Builder

	author := userStyle.Render("You")
	if msg.Role == domain.RoleModel {
		author = botStyle.Render("FinBot")
	}
	b.WriteString(author)
	b.WriteString(dimStyle.Render("  " + msg.CreatedAt.Format("15:04")))
	b.WriteString("\n")

	if msg.Role == domain.RoleModel {
		b.WriteString(markdown.Render(msg.Content, width))
	} else {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Content))
	}
	b.WriteString("\n")

	if msg.Role == domain.RoleModel && len(msg.Suggestions) > 0 {
		for i, sug := range msg.Suggestions {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d. ", i+1)))
			b.WriteString(accentStyle.Render(sug))
			b.WriteString("\n")
		}
	}

	return b.String()
}
