package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buyxtra/pkg/storetypes"
)

func controllerFixture() []storetypes.Product {
	return []storetypes.Product{
		{
			ID:       "1",
			Category: storetypes.CategoryMobile,
			Brand:    "vivo",
			Model:    "vivo V60",
			Name:     "vivo V60 (Auspicious Gold, 8GB+128GB)",
			Variants: []storetypes.Variant{{RAM: "8GB", Storage: "128GB", Price: 34999}},
			Specs:    []storetypes.Spec{{Key: "battery", Value: "6500 mAh"}},
		},
	}
}

// eventRecorder captures controller events in delivery order.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// lastTurnTexts returns, for each message-log event, the text of the final
// turn at that moment.
func (r *eventRecorder) lastTurnTexts() []string {
	var texts []string
	for _, e := range r.all() {
		if e.Kind != EventMessageLogChanged {
			continue
		}
		texts = append(texts, e.Log.Turns[len(e.Log.Turns)-1].Text)
	}
	return texts
}

func newTestController(client StreamClient, rec *eventRecorder) *Controller {
	opts := Options{
		Model:         "gemini-3-flash-preview",
		ContactNumber: "917797037684",
		StreamTimeout: 200 * time.Millisecond,
	}
	if rec != nil {
		opts.Listener = rec.listen
	}
	return NewController(client, controllerFixture(), opts)
}

func speakers(snap Snapshot) []Speaker {
	out := make([]Speaker, len(snap.Turns))
	for i, turn := range snap.Turns {
		out[i] = turn.Speaker
	}
	return out
}

func TestNewControllerSeedsGreeting(t *testing.T) {
	c := newTestController(&MockClient{}, nil)

	snap := c.Log()
	require.Len(t, snap.Turns, 1)
	assert.Equal(t, SpeakerAssistant, snap.Turns[0].Speaker)
	assert.Equal(t, Greeting, snap.Turns[0].Text)
	assert.False(t, c.Loading())
	assert.Equal(t, StateIdle, c.State())
}

func TestSendEmptyInputIsNoOp(t *testing.T) {
	client := &MockClient{}
	c := newTestController(client, nil)

	require.NoError(t, c.Send(context.Background(), ""))
	require.NoError(t, c.Send(context.Background(), "   \t\n"))

	assert.Len(t, c.Log().Turns, 1)
	assert.False(t, c.Loading())
	assert.Equal(t, 0, client.Starts())
}

func TestSendStreamsChunksInOrder(t *testing.T) {
	session := &MockSession{Script: []MockReply{
		{Chunks: []string{"Hel", "lo", " there"}},
	}}
	rec := &eventRecorder{}
	c := newTestController(&MockClient{Session: session}, rec)

	require.NoError(t, c.Send(context.Background(), "hi"))

	snap := c.Log()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, []Speaker{SpeakerAssistant, SpeakerUser, SpeakerAssistant}, speakers(snap))
	assert.Equal(t, "Hello there", snap.Turns[2].Text)
	assert.False(t, c.Loading())
	assert.Equal(t, StateSettledOk, c.State())

	// Intermediate states observed strictly in arrival order.
	assert.Equal(t, []string{"hi", "Hel", "Hello", "Hello there"}, rec.lastTurnTexts())
}

func TestSendLoadingLifecycle(t *testing.T) {
	session := &MockSession{Script: []MockReply{{Chunks: []string{"ok"}}}}
	rec := &eventRecorder{}
	c := newTestController(&MockClient{Session: session}, rec)

	require.NoError(t, c.Send(context.Background(), "hi"))

	var loadingStates []bool
	for _, e := range rec.all() {
		if e.Kind == EventLoadingChanged {
			loadingStates = append(loadingStates, e.Loading)
		}
	}
	assert.Equal(t, []bool{true, false}, loadingStates)
}

func TestSendMissingCredential(t *testing.T) {
	client := &MockClient{StartErr: errors.New("api key not configured")}
	c := newTestController(client, nil)

	require.NoError(t, c.Send(context.Background(), "hi"))

	snap := c.Log()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, "hi", snap.Turns[1].Text)
	assert.Equal(t, SpeakerAssistant, snap.Turns[2].Speaker)
	assert.Equal(t, initErrorText, snap.Turns[2].Text)
	assert.False(t, c.Loading())
	assert.Equal(t, StateSettledErr, c.State())

	// Each dispatch retries initialization once.
	require.NoError(t, c.Send(context.Background(), "hi again"))
	assert.Equal(t, 2, client.Starts())
}

func TestSendSessionCreatedOnce(t *testing.T) {
	session := &MockSession{Script: []MockReply{
		{Chunks: []string{"first"}},
		{Chunks: []string{"second"}},
	}}
	client := &MockClient{Session: session}
	c := newTestController(client, nil)

	require.NoError(t, c.Send(context.Background(), "one"))
	require.NoError(t, c.Send(context.Background(), "two"))

	assert.Equal(t, 1, client.Starts())
	assert.Equal(t, 2, session.Calls())
}

func TestSendTransportErrorMidStream(t *testing.T) {
	session := &MockSession{Script: []MockReply{
		{Chunks: []string{"He"}, Err: errors.New("connection reset"), ErrAfter: 1},
		{Chunks: []string{"recovered"}},
	}}
	client := &MockClient{Session: session}
	c := newTestController(client, nil)

	require.NoError(t, c.Send(context.Background(), "hi"))

	snap := c.Log()
	require.Len(t, snap.Turns, 4)
	assert.Equal(t, "He", snap.Turns[2].Text)
	assert.Equal(t, streamErrorText, snap.Turns[3].Text)
	assert.False(t, c.Loading())
	assert.Equal(t, StateSettledErr, c.State())

	// The session handle is preserved; the next send reuses it.
	require.NoError(t, c.Send(context.Background(), "again"))
	assert.Equal(t, 1, client.Starts())
	assert.Equal(t, "recovered", c.Log().Turns[len(c.Log().Turns)-1].Text)
}

func TestSendErrorBeforeFirstChunk(t *testing.T) {
	session := &MockSession{Script: []MockReply{
		{Err: errors.New("bad request")},
	}}
	c := newTestController(&MockClient{Session: session}, nil)

	require.NoError(t, c.Send(context.Background(), "hi"))

	snap := c.Log()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, streamErrorText, snap.Turns[2].Text)
	assert.False(t, c.Loading())
}

func TestSendEmptyStreamAppendsFallback(t *testing.T) {
	session := &MockSession{Script: []MockReply{{}}}
	c := newTestController(&MockClient{Session: session}, nil)

	require.NoError(t, c.Send(context.Background(), "hi"))

	snap := c.Log()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, emptyReplyText, snap.Turns[2].Text)
	assert.False(t, c.Loading())
	assert.Equal(t, StateSettledOk, c.State())
}

func TestSendIgnoresEmptyChunks(t *testing.T) {
	session := &MockSession{Script: []MockReply{
		{Chunks: []string{"", "Hi", "", "!"}},
	}}
	c := newTestController(&MockClient{Session: session}, nil)

	require.NoError(t, c.Send(context.Background(), "hello"))

	snap := c.Log()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, "Hi!", snap.Turns[2].Text)
}

func TestSendSingleFlight(t *testing.T) {
	session := &MockSession{Script: []MockReply{{Hang: true}}}
	c := newTestController(&MockClient{Session: session}, nil)

	done := make(chan error, 1)
	go func() {
		done <- c.Send(context.Background(), "a")
	}()

	require.Eventually(t, c.Loading, time.Second, 5*time.Millisecond)

	err := c.Send(context.Background(), "b")
	assert.ErrorIs(t, err, ErrBusy)

	// The rejected message never reaches the log.
	for _, turn := range c.Log().Turns {
		assert.NotEqual(t, "b", turn.Text)
	}

	// The hung stream is cut off by the silence watchdog and settles.
	require.NoError(t, <-done)
	assert.False(t, c.Loading())
	assert.Equal(t, StateSettledErr, c.State())
	assert.Equal(t, streamErrorText, c.Log().Turns[len(c.Log().Turns)-1].Text)
}

func TestSendSequentialDispatches(t *testing.T) {
	session := &MockSession{Script: []MockReply{
		{Chunks: []string{"one"}},
		{Chunks: []string{"two"}},
		{Chunks: []string{"three"}},
	}}
	c := newTestController(&MockClient{Session: session}, nil)

	for _, msg := range []string{"a", "b", "c"} {
		require.NoError(t, c.Send(context.Background(), msg))
	}

	// Greeting, then one user turn and one assistant turn per send.
	snap := c.Log()
	require.Len(t, snap.Turns, 7)
	assert.Equal(t, []Speaker{
		SpeakerAssistant,
		SpeakerUser, SpeakerAssistant,
		SpeakerUser, SpeakerAssistant,
		SpeakerUser, SpeakerAssistant,
	}, speakers(snap))
}

func TestCloseDropsLateUpdates(t *testing.T) {
	session := &MockSession{Script: []MockReply{{Hang: true}}}
	c := newTestController(&MockClient{Session: session}, nil)

	done := make(chan error, 1)
	go func() {
		done <- c.Send(context.Background(), "hi")
	}()

	require.Eventually(t, c.Loading, time.Second, 5*time.Millisecond)
	c.Close()

	turnsAtClose := len(c.Log().Turns)
	require.NoError(t, <-done)

	// The late failure must not have appended an error turn.
	assert.Len(t, c.Log().Turns, turnsAtClose)
	assert.False(t, c.Loading())
}

func TestSendAfterClose(t *testing.T) {
	c := newTestController(&MockClient{}, nil)
	c.Close()

	err := c.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Len(t, c.Log().Turns, 1)
}
