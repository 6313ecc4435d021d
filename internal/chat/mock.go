package chat

import (
	"context"
	"sync"
)

// MockReply scripts one SendMessageStream call on a MockSession.
type MockReply struct {
	Chunks []string
	// Err, when set, is returned after ErrAfter chunks have been
	// delivered (all chunks first if ErrAfter exceeds len(Chunks)).
	Err      error
	ErrAfter int
	// Hang blocks until the context is cancelled, then returns the
	// context error. Used to exercise the silence watchdog.
	Hang bool
}

// MockClient implements StreamClient for tests.
type MockClient struct {
	// StartErr, when set, makes every StartSession call fail.
	StartErr error
	// Session is handed out by StartSession when StartErr is nil.
	Session *MockSession

	mu     sync.Mutex
	starts int
}

// StartSession returns the scripted session or the scripted error.
func (m *MockClient) StartSession(_ context.Context, _ SessionConfig) (Session, error) {
	m.mu.Lock()
	m.starts++
	m.mu.Unlock()

	if m.StartErr != nil {
		return nil, m.StartErr
	}
	if m.Session == nil {
		m.Session = &MockSession{}
	}
	return m.Session, nil
}

// Starts returns how many times StartSession was called.
func (m *MockClient) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// MockSession replays scripted replies, one per SendMessageStream call.
type MockSession struct {
	Script []MockReply

	mu    sync.Mutex
	calls int
}

// Calls returns how many times SendMessageStream was invoked.
func (s *MockSession) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// SendMessageStream delivers the next scripted reply's chunks in order.
// Calls beyond the script produce an empty stream.
func (s *MockSession) SendMessageStream(ctx context.Context, _ string, onChunk func(string)) error {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()

	if call >= len(s.Script) {
		return nil
	}
	reply := s.Script[call]

	if reply.Hang {
		<-ctx.Done()
		return ctx.Err()
	}

	for i, chunk := range reply.Chunks {
		if reply.Err != nil && i == reply.ErrAfter {
			return reply.Err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		onChunk(chunk)
	}
	if reply.Err != nil {
		return reply.Err
	}
	return nil
}
