package commands

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/thedracle/openai-chat/internal/api"
	"github.com/thedracle/openai-chat/internal/config"
	"github.com/thedracle/openai-chat/internal/logging"
	"github.com/thedracle/openai-chat/internal/tui"
)

// ChatRunner runs the interactive chat window.
type ChatRunner interface {
	RunChat(ctx context.Context, opts tui.Options) error
}

// Dependencies holds the external collaborators of the commands so tests
// can replace the terminal, the network client and the TUI.
type Dependencies struct {
	// TUI runs the chat window.
	TUI ChatRunner

	// NewClient builds the completion client for the resolved config.
	NewClient func(cfg config.Config, logger *logging.Logger) (api.Completer, error)

	// IsTerminal reports whether stdout is an interactive terminal.
	IsTerminal func() bool

	// TerminalWidth returns the terminal width, or 0 when unknown.
	TerminalWidth func() int
}

// DefaultTUI is the production ChatRunner.
type DefaultTUI struct{}

// RunChat implements ChatRunner
func (d *DefaultTUI) RunChat(ctx context.Context, opts tui.Options) error {
	return tui.RunChat(ctx, opts)
}

// NewDependencies returns the production dependencies.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:           &DefaultTUI{},
		NewClient:     newAPIClient,
		IsTerminal:    stdoutIsTerminal,
		TerminalWidth: stdoutWidth,
	}
}

func newAPIClient(cfg config.Config, logger *logging.Logger) (api.Completer, error) {
	return api.NewClient(cfg.APIKey,
		api.WithBaseURL(cfg.APIURL),
		api.WithOrganization(cfg.Organization),
		api.WithLogger(logger),
	)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdoutWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}
