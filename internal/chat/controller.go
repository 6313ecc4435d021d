package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"buyxtra/internal/logger"
	"buyxtra/pkg/storetypes"

	charmlog "github.com/charmbracelet/log"
)

// State is the dispatch-cycle state of a controller.
type State int

// Dispatch-cycle states. Exactly one cycle is in flight at a time; a new
// Send resets a settled controller back through AwaitingFirstChunk.
const (
	StateIdle State = iota
	StateAwaitingFirstChunk
	StateStreaming
	StateSettledOk
	StateSettledErr
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFirstChunk:
		return "awaiting_first_chunk"
	case StateStreaming:
		return "streaming"
	case StateSettledOk:
		return "settled_ok"
	case StateSettledErr:
		return "settled_err"
	default:
		return "unknown"
	}
}

// EventKind tags controller notifications.
type EventKind string

// The two notification kinds observed by a presentation layer.
const (
	EventMessageLogChanged EventKind = "message_log_changed"
	EventLoadingChanged    EventKind = "loading_changed"
)

// Event is delivered to the controller's listener after every observable
// change. Log is a stable snapshot taken at the moment of the change.
type Event struct {
	Kind    EventKind
	Log     Snapshot
	Loading bool
}

// Listener receives controller events. Calls are sequential and ordered;
// a listener must not call back into the controller.
type Listener func(Event)

// Fixed user-visible messages. The two error texts are deliberately
// distinct so a stuck credential reads differently from a flaky network.
const (
	initErrorText   = "Support is unavailable right now. Please try again later."
	streamErrorText = "Error. Try again."
	emptyReplyText  = "Hmm, I have no answer for that. Please try again."
)

// Sentinel errors returned by Send for caller-contract violations. Remote
// failures never surface as errors; they settle into the message log.
var (
	ErrBusy   = errors.New("a message is already in flight")
	ErrClosed = errors.New("chat controller is closed")
)

// Options configures a Controller.
type Options struct {
	Model         string
	ContactNumber string
	// StreamTimeout bounds silence from the remote API within one
	// dispatch; the timer resets on every chunk. Zero means 30s.
	StreamTimeout time.Duration
	Listener      Listener
}

// Controller mediates all communication with the remote generation API for
// one chat widget instance. It owns the session handle and the message log
// exclusively; the presentation layer sees only snapshots and events.
type Controller struct {
	mu       sync.Mutex
	client   StreamClient
	products []storetypes.Product
	opts     Options

	session Session // created at most once, never recreated
	log     *MessageLog
	state   State
	loading bool
	busy    bool
	closed  bool

	clog *charmlog.Logger
}

// NewController creates a controller over the given catalog snapshot. The
// remote session is not created here; it is established lazily on the
// first dispatch so a missing credential cannot crash startup.
func NewController(client StreamClient, products []storetypes.Product, opts Options) *Controller {
	if opts.StreamTimeout <= 0 {
		opts.StreamTimeout = 30 * time.Second
	}
	return &Controller{
		client:   client,
		products: products,
		opts:     opts,
		log:      NewMessageLog(),
		state:    StateIdle,
		clog:     logger.NewStyledLogger("Chat"),
	}
}

// Log returns a stable snapshot of the message log.
func (c *Controller) Log() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Snapshot()
}

// Loading reports whether a dispatch is waiting for its first chunk.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// State returns the current dispatch-cycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close tears the controller down. An in-flight stream is not cancelled,
// but every update it would make after this point is dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.loading = false
}

// Send dispatches one user message and blocks until the dispatch cycle
// settles. Whitespace-only input is a no-op. Send returns ErrBusy while a
// prior cycle is in flight and ErrClosed after Close; remote failures do
// not surface as errors — they are converted to fixed assistant turns and
// the next Send may retry against the preserved session.
//
// On every exit path — init failure, empty stream, transport error, or
// success — the loading flag ends up false.
func (c *Controller) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.state = StateAwaitingFirstChunk
	c.loading = true
	c.log.Append(SpeakerUser, text)
	c.mu.Unlock()

	c.emit(EventMessageLogChanged)
	c.emit(EventLoadingChanged)

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	session, err := c.ensureSession(ctx)
	if err != nil {
		c.clog.Error("session initialization failed", "error", err)
		c.settle(StateSettledErr, initErrorText)
		return nil
	}

	return c.stream(ctx, session, text)
}

// ensureSession returns the existing session handle or creates it. The
// system prompt is built from the catalog snapshot and fixed at creation;
// a successfully created handle is reused for every later dispatch.
func (c *Controller) ensureSession(ctx context.Context) (Session, error) {
	c.mu.Lock()
	if c.session != nil {
		s := c.session
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	cfg := SessionConfig{
		Model:        c.opts.Model,
		SystemPrompt: SystemPrompt(c.products, c.opts.ContactNumber),
	}
	session, err := c.client.StartSession(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	c.clog.Debug("session established", "model", cfg.Model)
	return session, nil
}

// stream runs one dispatch cycle against the session and reconciles every
// chunk into the message log in arrival order.
func (c *Controller) stream(ctx context.Context, session Session, text string) error {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Silence watchdog: cancel the stream if the remote API goes quiet.
	watchdog := time.AfterFunc(c.opts.StreamTimeout, cancel)
	defer watchdog.Stop()

	gotChunk := false
	onChunk := func(chunk string) {
		watchdog.Reset(c.opts.StreamTimeout)
		if chunk == "" {
			return
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		if !gotChunk {
			gotChunk = true
			c.loading = false
			c.state = StateStreaming
			c.log.Append(SpeakerAssistant, chunk)
			c.mu.Unlock()
			c.emit(EventLoadingChanged)
			c.emit(EventMessageLogChanged)
			return
		}
		if err := c.log.AppendToLast(chunk); err != nil {
			// Unreachable by construction: the first chunk always
			// appends an assistant turn before this path runs.
			c.mu.Unlock()
			c.clog.Error("message log invariant violated", "error", err)
			return
		}
		c.mu.Unlock()
		c.emit(EventMessageLogChanged)
	}

	err := session.SendMessageStream(streamCtx, text, onChunk)

	switch {
	case err != nil:
		c.clog.Error("stream failed", "error", err)
		c.settle(StateSettledErr, streamErrorText)
	case !gotChunk:
		// The model returned nothing. Surface a fallback turn rather
		// than leaving the user staring at their own message.
		c.clog.Warn("stream completed with no chunks")
		c.settle(StateSettledOk, emptyReplyText)
	default:
		c.settle(StateSettledOk, "")
	}
	return nil
}

// settle ends the dispatch cycle: clears loading, optionally appends a
// fixed assistant turn, and records the terminal state. Settling after
// Close is a no-op so late streams cannot touch a discarded log.
func (c *Controller) settle(state State, assistantText string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	wasLoading := c.loading
	c.loading = false
	c.state = state
	if assistantText != "" {
		c.log.Append(SpeakerAssistant, assistantText)
	}
	c.mu.Unlock()

	if wasLoading {
		c.emit(EventLoadingChanged)
	}
	if assistantText != "" {
		c.emit(EventMessageLogChanged)
	}
	c.clog.Debug("dispatch settled", "state", state.String())
}

// emit delivers one event to the listener with a snapshot taken under the
// lock. Events are emitted from the dispatch goroutine only, so observers
// see changes in the order they happened.
func (c *Controller) emit(kind EventKind) {
	if c.opts.Listener == nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	event := Event{Kind: kind, Log: c.log.Snapshot(), Loading: c.loading}
	c.mu.Unlock()
	c.opts.Listener(event)
}
