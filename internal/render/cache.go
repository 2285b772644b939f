package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	// maxIdleRenderers caps the renderers kept per option set
	maxIdleRenderers = 4

	// maxRenderedReplies bounds the memoised reply output
	maxRenderedReplies = 256
)

type replyKey struct {
	opts    Options
	content string
}

// cache holds idle glamour renderers per option set and the output of
// recently rendered replies. The chat view redraws the whole transcript
// on every message and resize, so finished replies are looked up instead
// of rendered again.
//
// A TermRenderer is handed to one caller at a time; concurrent Render
// calls on the same renderer are not safe.
type cache struct {
	mu      sync.Mutex
	idle    map[Options][]*glamour.TermRenderer
	replies map[replyKey]string
	order   []replyKey
}

var shared = newCache()

func newCache() *cache {
	return &cache{
		idle:    make(map[Options][]*glamour.TermRenderer),
		replies: make(map[replyKey]string),
	}
}

// acquire takes an idle renderer for opts or builds a new one.
func (c *cache) acquire(opts Options) (*glamour.TermRenderer, error) {
	c.mu.Lock()
	list, seen := c.idle[opts]
	if n := len(list); n > 0 {
		r := list[n-1]
		c.idle[opts] = list[:n-1]
		c.mu.Unlock()
		return r, nil
	}
	if !seen {
		c.idle[opts] = nil
	}
	c.mu.Unlock()

	return newRenderer(opts)
}

// release hands r back; renderers beyond the idle cap are dropped.
func (c *cache) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.idle[opts]) < maxIdleRenderers {
		c.idle[opts] = append(c.idle[opts], r)
	}
}

func (c *cache) rendered(opts Options, content string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, ok := c.replies[replyKey{opts, content}]
	return out, ok
}

// remember stores out, evicting the oldest reply once the memo is full.
func (c *cache) remember(opts Options, content, out string) {
	key := replyKey{opts, content}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.replies[key]; ok {
		return
	}
	if len(c.order) >= maxRenderedReplies {
		delete(c.replies, c.order[0])
		c.order = c.order[1:]
	}
	c.replies[key] = out
	c.order = append(c.order, key)
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idle = make(map[Options][]*glamour.TermRenderer)
	c.replies = make(map[replyKey]string)
	c.order = nil
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		styleOption(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops idle renderers and memoised replies.
func ClearCache() {
	shared.reset()
}

// CacheSize returns the number of distinct option sets seen.
func CacheSize() int {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return len(shared.idle)
}
