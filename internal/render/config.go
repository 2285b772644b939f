package render

import (
	"os"

	"github.com/thedracle/openai-chat/internal/config"
)

// styleEnv overrides the configured markdown style when set
const styleEnv = "GLAMOUR_STYLE"

// FromConfig builds render options from the markdown section of the config.
func FromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions().WithWidth(width)

	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv(styleEnv); style != "" {
		opts.Style = style
	}
	return opts
}
