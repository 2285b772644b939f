package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/thedracle/openai-chat/internal/config"
	"github.com/thedracle/openai-chat/internal/logging"
	"github.com/thedracle/openai-chat/internal/render"
	"github.com/thedracle/openai-chat/internal/tui"
)

// ErrNotTerminal is returned when the chat is started without a terminal
var ErrNotTerminal = errors.New("openai-chat needs an interactive terminal on stdout")

const fallbackWidth = 80

func runChat(ctx context.Context, cfg config.Config, deps *Dependencies) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !deps.IsTerminal() {
		return ErrNotTerminal
	}

	logger, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	logger, _ = logger.WithSession()
	logger.Info("starting chat",
		"version", Version,
		"api_url", cfg.APIURL,
		"model", cfg.Model,
		"api_key", cfg.MaskedAPIKey(),
		"timeout", cfg.Timeout(),
		"theme", cfg.TUITheme,
		"markdown", cfg.Markdown.Enabled,
	)

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		logger.Error("failed to create client", "error", err)
		return fmt.Errorf("failed to create client: %w", err)
	}
	if c, ok := client.(interface{ Close() }); ok {
		defer c.Close()
	}

	width := deps.TerminalWidth()
	if width <= 0 {
		width = fallbackWidth
	}

	err = deps.TUI.RunChat(ctx, tui.Options{
		Client:       client,
		Model:        cfg.Model,
		Timeout:      cfg.Timeout(),
		SystemPrompt: cfg.SystemPrompt,
		Theme:        cfg.TUITheme,
		Markdown:     cfg.Markdown.Enabled,
		Render:       render.FromConfig(cfg.Markdown, width),
		Logger:       logger,
	})
	if err != nil {
		logger.Error("chat ended with error", "error", err)
		return err
	}

	logger.Info("chat ended")
	return nil
}

// openLogger opens the configured log file, or discards records when none
// is configured.
func openLogger(cfg config.Config) (*logging.Logger, error) {
	if cfg.LogFile == "" {
		return logging.Discard(), nil
	}
	logger, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logger, nil
}
