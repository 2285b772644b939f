// Package render turns assistant replies into styled terminal text.
package render

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column; zero disables wrapping
	Width int

	// Style is a markdown theme name or a path to a glamour JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the options used when no config is loaded.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeMonokai,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy of o wrapping at width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy of o using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
