package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thedracle/openai-chat/internal/api"
	"github.com/thedracle/openai-chat/internal/logging"
	"github.com/thedracle/openai-chat/internal/render"
	"github.com/thedracle/openai-chat/internal/session"
)

// sender is the part of tea.Program the sink needs
type sender interface {
	Send(msg tea.Msg)
}

// ProgramSink delivers session entries to a running bubbletea program.
// Send hands the message to the program's own goroutine, and returns
// without delivering once the program has exited.
type ProgramSink struct {
	program sender
}

// NewProgramSink creates a sink posting to p
func NewProgramSink(p *tea.Program) *ProgramSink {
	return &ProgramSink{program: p}
}

// Post implements session.Sink
func (s *ProgramSink) Post(e session.Entry) {
	s.program.Send(entryMsg{entry: e})
}

// Options configures RunChat
type Options struct {
	Client       api.Completer
	Model        string
	Timeout      time.Duration
	SystemPrompt string
	Theme        string
	Markdown     bool
	Render       render.Options
	Logger       *logging.Logger
}

// RunChat opens the chat window and runs the session loop behind it until
// the user quits or ctx is cancelled.
func RunChat(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		return errors.New("tui: completion client is required")
	}
	if opts.Theme != "" {
		if !render.SetTUITheme(opts.Theme) {
			return fmt.Errorf("unknown theme %q (available: %v)", opts.Theme, render.TUIThemeNames())
		}
		UpdateTheme()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	sink := &ProgramSink{}
	loop := session.New(opts.Client, sink, session.Options{
		Model:        opts.Model,
		Timeout:      opts.Timeout,
		SystemPrompt: opts.SystemPrompt,
		Logger:       opts.Logger,
	})

	m := NewChatModel(loop, opts.Model, opts.Markdown, opts.Render)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	sink.program = p

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()

	_, err := p.Run()
	cancel()
	if loopErr := <-loopDone; loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		opts.Logger.Error("session loop stopped unexpectedly", "error", loopErr)
	}

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
