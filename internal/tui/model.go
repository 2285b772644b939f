package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thedracle/openai-chat/internal/errors"
	"github.com/thedracle/openai-chat/internal/render"
	"github.com/thedracle/openai-chat/internal/session"
)

// Transcript labels
const (
	userLabel      = "You: "
	assistantLabel = "GPT: "
	errorLabel     = "Error: "
)

// Local commands handled by the window instead of the model
const (
	cmdQuit = "/quit"
	cmdExit = "/exit"
	cmdCopy = "/copy"
)

// entryMsg carries a session entry onto the UI goroutine
type entryMsg struct {
	entry session.Entry
}

// Conversation is the part of the session loop the window talks to
type Conversation interface {
	Submit(text string) uint64
	LastReply() (string, bool)
}

// Model is the chat window
type Model struct {
	conv      Conversation
	modelName string

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	transcript []session.Entry
	pending    int
	notice     string
	ready      bool

	markdown   bool
	renderOpts render.Options
	copyText   func(string) error

	width  int
	height int
}

// NewChatModel creates the window for conv
func NewChatModel(conv Conversation, modelName string, markdown bool, opts render.Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message and press Enter..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(2)
	// Enter submits; the textarea must not turn it into a newline
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		conv:       conv,
		modelName:  modelName,
		textarea:   ta,
		spinner:    s,
		markdown:   markdown,
		renderOpts: opts,
		copyText:   clipboard.WriteAll,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}

	case entryMsg:
		return m, m.appendEntry(msg.entry)

	case spinner.TickMsg:
		if m.pending > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only keys reach the textarea so mouse escape sequences never leak in
	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit hands the raw input to the conversation and clears the input.
// Lines are accepted while replies are pending; the loop queues them.
func (m Model) submit() (tea.Model, tea.Cmd) {
	raw := m.textarea.Value()
	m.textarea.Reset()
	m.notice = ""

	switch strings.TrimSpace(raw) {
	case cmdQuit, cmdExit:
		return m, tea.Quit
	case cmdCopy:
		m.notice = m.copyLastReply()
		return m, nil
	}

	m.conv.Submit(raw)
	m.pending++
	if m.pending == 1 {
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m *Model) copyLastReply() string {
	reply, ok := m.conv.LastReply()
	if !ok {
		return "Nothing to copy yet"
	}
	if err := m.copyText(reply); err != nil {
		return fmt.Sprintf("Copy failed: %v", err)
	}
	return "Copied last reply to clipboard"
}

func (m *Model) appendEntry(e session.Entry) tea.Cmd {
	m.transcript = append(m.transcript, e)
	if e.IsOutcome() && m.pending > 0 {
		m.pending--
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	return nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 4
	statusHeight := 1
	borders := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - borders
	if vpHeight < 3 {
		vpHeight = 3
	}
	contentWidth := width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = scrollKeys()
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
	m.renderOpts = m.renderOpts.WithWidth(contentWidth - 2)
	m.updateViewport()
	m.viewport.GotoBottom()
}

// scrollKeys leaves printable keys to the textarea
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Down:     key.NewBinding(key.WithKeys("ctrl+down")),
		Up:       key.NewBinding(key.WithKeys("ctrl+up")),
	}
}

// updateViewport re-renders the transcript into the viewport
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	width := m.viewport.Width - 2

	var content strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(m.renderEntry(e, width))
	}
	m.viewport.SetContent(content.String())
}

func (m Model) renderEntry(e session.Entry, width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	switch e.Kind {
	case session.EntryUser:
		return wrap.Render(userLabelStyle.Render(userLabel) + userTextStyle.Render(e.Text))

	case session.EntryAssistant:
		if m.markdown {
			return assistantLabelStyle.Render(assistantLabel) + "\n" + render.Reply(e.Text, m.renderOpts)
		}
		return wrap.Render(assistantLabelStyle.Render(assistantLabel) + assistantTextStyle.Render(e.Text))

	case session.EntryTimeout:
		return wrap.Render(errorStyle.Render(errorLabel + e.Text))

	default:
		line := wrap.Render(errorStyle.Render(errorLabel + e.Text))
		if hint := errors.Hint(e.Err); hint != "" {
			line += "\n" + wrap.Render(hintStyle.Render("  "+hint))
		}
		return line
	}
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}
	contentWidth := m.width - 4

	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("openai-chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
	))

	messages := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	input := inputPanelStyle.Width(contentWidth).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		inputLabelStyle.Render(strings.TrimSpace(userLabel)),
		m.textarea.View(),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		messages,
		input,
		m.renderStatusBar(contentWidth),
	)
}

func (m Model) renderStatusBar(width int) string {
	var left string
	switch {
	case m.notice != "":
		left = noticeStyle.Render(m.notice)
	case m.pending == 1:
		left = m.spinner.View() + loadingStyle.Render(" waiting for reply")
	case m.pending > 1:
		left = m.spinner.View() + loadingStyle.Render(fmt.Sprintf(" waiting for %d replies", m.pending))
	}

	shortcuts := []struct{ key, desc string }{
		{"Enter", "Send"},
		{"PgUp/PgDn", "Scroll"},
		{"/copy", "Copy reply"},
		{"Esc", "Quit"},
	}
	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	right := strings.Join(items, "  │  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
