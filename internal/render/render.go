package render

import "strings"

// Markdown renders content with a renderer for opts.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := shared.acquire(opts)
	if err != nil {
		return "", err
	}
	defer shared.release(opts, renderer)

	return renderer.Render(content)
}

// Reply renders an assistant reply, falling back to the raw text when
// glamour fails. Surrounding blank lines added by glamour are trimmed.
// Successful output is memoised per content and options.
func Reply(content string, opts Options) string {
	if out, ok := shared.rendered(opts, content); ok {
		return out
	}

	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	out = strings.Trim(out, "\n")
	shared.remember(opts, content, out)
	return out
}
