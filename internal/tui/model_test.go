package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	apierrors "github.com/thedracle/openai-chat/internal/errors"
	"github.com/thedracle/openai-chat/internal/render"
	"github.com/thedracle/openai-chat/internal/session"
)

// fakeConversation records submissions
type fakeConversation struct {
	mu        sync.Mutex
	submitted []string
	lastReply string
	hasReply  bool
}

func (f *fakeConversation) Submit(text string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, text)
	return uint64(len(f.submitted))
}

func (f *fakeConversation) LastReply() (string, bool) {
	return f.lastReply, f.hasReply
}

func newTestModel(t *testing.T, conv Conversation) Model {
	t.Helper()
	m := NewChatModel(conv, "gpt-3.5-turbo", false, render.DefaultOptions())
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func pressEnter(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestViewBeforeResize(t *testing.T) {
	m := NewChatModel(&fakeConversation{}, "m", false, render.DefaultOptions())
	if !strings.Contains(m.View(), "Initializing") {
		t.Errorf("expected initializing view, got %q", m.View())
	}
}

func TestSubmitSendsRawTextAndClearsInput(t *testing.T) {
	conv := &fakeConversation{}
	m := newTestModel(t, conv)

	m = typeText(t, m, "  Hello there  ")
	m, cmd := pressEnter(t, m)

	if len(conv.submitted) != 1 || conv.submitted[0] != "  Hello there  " {
		t.Fatalf("expected raw submission, got %q", conv.submitted)
	}
	if m.textarea.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.textarea.Value())
	}
	if m.pending != 1 {
		t.Errorf("expected 1 pending, got %d", m.pending)
	}
	if cmd == nil {
		t.Error("expected spinner tick when the first request starts")
	}
}

func TestSubmitEmptyLine(t *testing.T) {
	conv := &fakeConversation{}
	m := newTestModel(t, conv)

	m, _ = pressEnter(t, m)

	if len(conv.submitted) != 1 || conv.submitted[0] != "" {
		t.Fatalf("empty line should be submitted, got %q", conv.submitted)
	}
	if m.pending != 1 {
		t.Errorf("expected 1 pending, got %d", m.pending)
	}
}

func TestSubmitWhilePending(t *testing.T) {
	conv := &fakeConversation{}
	m := newTestModel(t, conv)

	m = typeText(t, m, "one")
	m, _ = pressEnter(t, m)
	m = typeText(t, m, "two")
	m, _ = pressEnter(t, m)

	if len(conv.submitted) != 2 {
		t.Fatalf("expected both lines submitted, got %q", conv.submitted)
	}
	if m.pending != 2 {
		t.Errorf("expected 2 pending, got %d", m.pending)
	}
	if !strings.Contains(m.View(), "waiting for 2 replies") {
		t.Error("status bar should show pending replies")
	}
}

func TestEntriesRenderInOrder(t *testing.T) {
	conv := &fakeConversation{}
	m := newTestModel(t, conv)

	m = typeText(t, m, "Hello")
	m, _ = pressEnter(t, m)

	m = update(t, m, entryMsg{session.Entry{Seq: 1, Kind: session.EntryUser, Text: "Hello"}})
	if m.pending != 1 {
		t.Errorf("echo must not resolve the request, pending=%d", m.pending)
	}
	m = update(t, m, entryMsg{session.Entry{Seq: 1, Kind: session.EntryAssistant, Text: "Hi there!"}})
	if m.pending != 0 {
		t.Errorf("outcome should resolve the request, pending=%d", m.pending)
	}

	view := m.viewport.View()
	user := strings.Index(view, "You: Hello")
	reply := strings.Index(view, "GPT: Hi there!")
	if user < 0 || reply < 0 {
		t.Fatalf("transcript missing entries:\n%s", view)
	}
	if user > reply {
		t.Error("user line should precede the reply")
	}
}

func TestErrorAndTimeoutEntries(t *testing.T) {
	m := newTestModel(t, &fakeConversation{})

	authErr := apierrors.NewAuthError(401, "bad key")
	m = update(t, m, entryMsg{session.Entry{Seq: 1, Kind: session.EntryError, Text: authErr.Error(), Err: authErr}})
	m = update(t, m, entryMsg{session.Entry{Seq: 2, Kind: session.EntryTimeout, Text: session.TimeoutMessage}})

	view := m.viewport.View()
	if !strings.Contains(view, "Error: authentication failed: bad key") {
		t.Errorf("missing error line:\n%s", view)
	}
	if !strings.Contains(view, "--api_key") {
		t.Errorf("missing auth hint:\n%s", view)
	}
	if !strings.Contains(view, "Error: "+session.TimeoutMessage) {
		t.Errorf("missing timeout line:\n%s", view)
	}
}

func TestAutoScrollToBottom(t *testing.T) {
	m := newTestModel(t, &fakeConversation{})

	for i := 0; i < 50; i++ {
		m = update(t, m, entryMsg{session.Entry{Seq: uint64(i), Kind: session.EntryUser, Text: "line"}})
	}
	if !m.viewport.AtBottom() {
		t.Error("viewport should follow new entries")
	}
}

func TestQuitCommands(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		text string
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, ""},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, ""},
		{"/quit", tea.KeyMsg{Type: tea.KeyEnter}, "/quit"},
		{"/exit", tea.KeyMsg{Type: tea.KeyEnter}, " /exit "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConversation{}
			m := newTestModel(t, conv)
			if tt.text != "" {
				m = typeText(t, m, tt.text)
			}
			_, cmd := m.Update(tt.msg)
			if !isQuit(cmd) {
				t.Error("expected quit command")
			}
			if len(conv.submitted) != 0 {
				t.Errorf("quit must not submit, got %q", conv.submitted)
			}
		})
	}
}

func TestCopyCommand(t *testing.T) {
	conv := &fakeConversation{lastReply: "the answer", hasReply: true}
	m := newTestModel(t, conv)

	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	m = typeText(t, m, "/copy")
	m, _ = pressEnter(t, m)

	if copied != "the answer" {
		t.Errorf("expected last reply copied, got %q", copied)
	}
	if len(conv.submitted) != 0 {
		t.Error("/copy must not be sent to the model")
	}
	if !strings.Contains(m.View(), "Copied last reply") {
		t.Error("expected copy notice")
	}
}

func TestCopyCommandNoReplyOrFailure(t *testing.T) {
	m := newTestModel(t, &fakeConversation{})
	m = typeText(t, m, "/copy")
	m, _ = pressEnter(t, m)
	if m.notice != "Nothing to copy yet" {
		t.Errorf("unexpected notice %q", m.notice)
	}

	m = newTestModel(t, &fakeConversation{lastReply: "x", hasReply: true})
	m.copyText = func(string) error { return errors.New("no clipboard") }
	m = typeText(t, m, "/copy")
	m, _ = pressEnter(t, m)
	if !strings.Contains(m.notice, "no clipboard") {
		t.Errorf("unexpected notice %q", m.notice)
	}
}

func TestMarkdownReply(t *testing.T) {
	opts := render.DefaultOptions().WithStyle(render.ThemeDark)
	m := NewChatModel(&fakeConversation{}, "m", true, opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = update(t, m, entryMsg{session.Entry{Seq: 1, Kind: session.EntryAssistant, Text: "**bold** reply"}})

	view := m.viewport.View()
	if !strings.Contains(view, "GPT:") || !strings.Contains(view, "reply") {
		t.Errorf("markdown reply missing:\n%s", view)
	}
	if strings.Contains(view, "**bold**") {
		t.Error("markdown should be rendered")
	}
}

func TestViewShowsModelName(t *testing.T) {
	m := newTestModel(t, &fakeConversation{})
	if !strings.Contains(m.View(), "gpt-3.5-turbo") {
		t.Error("header should show the model name")
	}
}

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.msgs = append(r.msgs, msg)
}

func TestProgramSinkWrapsEntries(t *testing.T) {
	rec := &recordingSender{}
	sink := &ProgramSink{program: rec}

	entry := session.Entry{Seq: 3, Kind: session.EntryAssistant, Text: "hi"}
	sink.Post(entry)

	if len(rec.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(rec.msgs))
	}
	got, ok := rec.msgs[0].(entryMsg)
	if !ok || got.entry != entry {
		t.Errorf("unexpected message %#v", rec.msgs[0])
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("nil error should format empty")
	}

	out := FormatError(apierrors.NewAPIError(500, "/chat/completions", "server exploded"))
	for _, want := range []string{"server exploded", "HTTP Status: 500", "Endpoint: /chat/completions"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatError missing %q:\n%s", want, out)
		}
	}
}

func TestUpdateThemeFollowsRenderTheme(t *testing.T) {
	defer func() {
		render.SetTUITheme("monokai")
		UpdateTheme()
	}()

	render.SetTUITheme("nord")
	UpdateTheme()
	if colorPrimary != render.NordTheme.Primary {
		t.Errorf("expected nord primary, got %s", colorPrimary)
	}
}
