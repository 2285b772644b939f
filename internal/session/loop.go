// Package session runs the conversation loop between submitted lines and
// the completion client.
//
// A Loop owns the conversation history. Lines handed to Submit are queued
// and consumed one at a time by Run, so at most one completion request is
// in flight per conversation. Every submission produces exactly two
// entries on the Sink: an echo of the user's line and one outcome
// (assistant reply, error, or timeout).
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/thedracle/openai-chat/internal/api"
	apierrors "github.com/thedracle/openai-chat/internal/errors"
	"github.com/thedracle/openai-chat/internal/history"
	"github.com/thedracle/openai-chat/internal/logging"
	"github.com/thedracle/openai-chat/internal/models"
)

// DefaultTimeout bounds a single completion request
const DefaultTimeout = 60 * time.Second

// TimeoutMessage is shown when a completion does not arrive in time
const TimeoutMessage = "Request timed out. Check your network connection."

// ErrAlreadyRunning is returned when Run is called on a loop that is running
var ErrAlreadyRunning = errors.New("session: loop already running")

// State is the loop's position in the request cycle
type State int32

const (
	// StateIdle means the loop is waiting for the next submission
	StateIdle State = iota
	// StateAwaitingCompletion means one completion request is in flight
	StateAwaitingCompletion
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCompletion:
		return "awaiting-completion"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// EntryKind classifies a transcript entry
type EntryKind int

const (
	EntryUser EntryKind = iota
	EntryAssistant
	EntryError
	EntryTimeout
)

func (k EntryKind) String() string {
	switch k {
	case EntryUser:
		return "user"
	case EntryAssistant:
		return "assistant"
	case EntryError:
		return "error"
	case EntryTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// Entry is one piece of transcript for the display surface to render
type Entry struct {
	// Seq is the submission this entry belongs to
	Seq  uint64
	Kind EntryKind
	Text string
	// Err is set for EntryError and EntryTimeout
	Err error
}

// IsOutcome reports whether the entry resolves a submission
func (e Entry) IsOutcome() bool {
	return e.Kind != EntryUser
}

// Sink receives entries from the loop's goroutine.
// Implementations must hand the entry to their own thread and return
// promptly; they must not call back into the Loop synchronously.
type Sink interface {
	Post(Entry)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(Entry)

// Post implements Sink
func (f SinkFunc) Post(e Entry) { f(e) }

// Options configures a Loop
type Options struct {
	Model        string
	Timeout      time.Duration
	SystemPrompt string
	Logger       *logging.Logger
}

// Loop is the single consumer of submitted lines for one conversation
type Loop struct {
	client  api.Completer
	sink    Sink
	history *history.History
	model   string
	timeout time.Duration
	logger  *logging.Logger
	queue   *queue

	seq     atomic.Uint64
	state   atomic.Int32
	running atomic.Bool
}

// New creates a loop whose history opens with the system prompt
func New(client api.Completer, sink Sink, opts Options) *Loop {
	if client == nil {
		panic("session: completion client cannot be nil")
	}
	if sink == nil {
		sink = SinkFunc(func(Entry) {})
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = models.DefaultSystemPrompt
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &Loop{
		client:  client,
		sink:    sink,
		history: history.New(opts.SystemPrompt),
		model:   opts.Model,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		queue:   newQueue(),
	}
}

// Submit queues text for the loop and returns its sequence number.
// It never blocks and never fails; any string, including "", is accepted.
func (l *Loop) Submit(text string) uint64 {
	seq := l.seq.Add(1)
	l.queue.push(submission{seq: seq, text: text})
	return seq
}

// Run consumes submissions in order until ctx is done.
// It returns ctx.Err() on shutdown; a request in flight is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	l.logger.Info("session loop started", "model", l.model, "timeout", l.timeout)
	defer l.logger.Info("session loop stopped")

	for {
		sub, err := l.queue.pop(ctx)
		if err != nil {
			return err
		}
		l.handle(ctx, sub)
	}
}

// History returns a snapshot of the conversation
func (l *Loop) History() []models.Message {
	return l.history.Snapshot()
}

// LastReply returns the most recent assistant reply, if any
func (l *Loop) LastReply() (string, bool) {
	msg, ok := l.history.LastAssistant()
	return msg.Content, ok
}

// State reports whether a completion request is in flight
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Queued returns the number of submissions not yet picked up
func (l *Loop) Queued() int {
	return l.queue.len()
}

// Model returns the model name sent with every request
func (l *Loop) Model() string {
	return l.model
}

func (l *Loop) handle(ctx context.Context, sub submission) {
	log := l.logger.With("seq", sub.seq)

	// The user message goes into history before anything is rendered
	if err := l.history.Append(models.UserMessage(sub.text)); err != nil {
		log.Error("failed to append user message", "error", err)
	}
	log.Info("submission received", "chars", len(sub.text), "history", l.history.Len())
	l.sink.Post(Entry{Seq: sub.seq, Kind: EntryUser, Text: sub.text})

	l.state.Store(int32(StateAwaitingCompletion))
	entry, ok := l.attempt(ctx, sub.seq, log)
	l.state.Store(int32(StateIdle))

	if !ok {
		log.Info("submission abandoned on shutdown")
		return
	}
	l.sink.Post(entry)
}

type result struct {
	reply *models.Reply
	err   error
}

// attempt issues one completion request for the current history and races
// it against the timeout. ok is false only when ctx was cancelled.
func (l *Loop) attempt(ctx context.Context, seq uint64, log *logging.Logger) (Entry, bool) {
	snapshot := l.history.Snapshot()

	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	// Buffered so an abandoned call can still deliver and exit
	done := make(chan result, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: apierrors.NewContractError(fmt.Sprintf("completion client panicked: %v", r))}
			}
		}()
		reply, err := l.client.Complete(reqCtx, l.model, snapshot)
		done <- result{reply: reply, err: err}
	}()

	select {
	case res := <-done:
		if ctx.Err() != nil {
			return Entry{}, false
		}
		return l.resolve(seq, res, time.Since(start), log), true

	case <-reqCtx.Done():
		if ctx.Err() != nil {
			return Entry{}, false
		}
		log.Warn("completion timed out", "timeout", l.timeout)
		return timeoutEntry(seq, l.timeout), true
	}
}

func (l *Loop) resolve(seq uint64, res result, elapsed time.Duration, log *logging.Logger) Entry {
	if res.err != nil {
		if apierrors.IsTimeoutError(res.err) {
			log.Warn("completion timed out", "timeout", l.timeout, "error", res.err)
			return timeoutEntry(seq, l.timeout)
		}
		log.Warn("completion failed", "error", res.err, "duration", elapsed)
		return Entry{Seq: seq, Kind: EntryError, Text: res.err.Error(), Err: res.err}
	}

	msg, err := res.reply.First()
	if err != nil {
		log.Error("completion contract violation", "error", err, "duration", elapsed)
		return Entry{Seq: seq, Kind: EntryError, Text: err.Error(), Err: err}
	}

	content := strings.TrimSpace(msg.Content)
	if err := l.history.Append(models.AssistantMessage(content)); err != nil {
		log.Error("failed to append assistant message", "error", err)
		return Entry{Seq: seq, Kind: EntryError, Text: err.Error(), Err: err}
	}

	log.Info("completion succeeded",
		"duration", elapsed,
		"chars", len(content),
		"tokens", res.reply.TotalTokens(),
	)
	return Entry{Seq: seq, Kind: EntryAssistant, Text: content}
}

func timeoutEntry(seq uint64, timeout time.Duration) Entry {
	return Entry{
		Seq:  seq,
		Kind: EntryTimeout,
		Text: TimeoutMessage,
		Err:  apierrors.NewTimeoutError(fmt.Sprintf("no response after %s", timeout)),
	}
}
