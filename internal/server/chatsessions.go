package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"buyxtra/internal/chat"
)

// chatSession pairs one controller with a swappable event subscriber.
// Controller events fire synchronously inside Send on the dispatching
// goroutine, so the handler that holds the stream lock can point the
// subscriber at its own response writer for the duration of one Send.
type chatSession struct {
	id         string
	controller *chat.Controller

	// streamMu serializes message dispatches; a second concurrent
	// dispatch is rejected rather than queued.
	streamMu sync.Mutex

	subMu      sync.Mutex
	subscriber func(chat.Event)
}

func (cs *chatSession) setSubscriber(fn func(chat.Event)) {
	cs.subMu.Lock()
	defer cs.subMu.Unlock()
	cs.subscriber = fn
}

func (cs *chatSession) forward(ev chat.Event) {
	cs.subMu.Lock()
	fn := cs.subscriber
	cs.subMu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// sessionRegistry tracks live chat sessions by id.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*chatSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*chatSession)}
}

func (r *sessionRegistry) add(cs *chatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[cs.id] = cs
}

func (r *sessionRegistry) get(id string) (*chatSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.sessions[id]
	return cs, ok
}

func (r *sessionRegistry) remove(id string) (*chatSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return cs, ok
}

// sessionResponse describes one chat session over the wire.
type sessionResponse struct {
	ID      string        `json:"id"`
	State   string        `json:"state"`
	Loading bool          `json:"loading"`
	Log     chat.Snapshot `json:"log"`
}

func (s *Server) sessionResponse(cs *chatSession) sessionResponse {
	return sessionResponse{
		ID:      cs.id,
		State:   cs.controller.State().String(),
		Loading: cs.controller.Loading(),
		Log:     cs.controller.Log(),
	}
}

func (s *Server) handleCreateChatSession(w http.ResponseWriter, _ *http.Request) {
	cs := &chatSession{id: uuid.New().String()}
	cs.controller = chat.NewController(s.client, s.store.Products(), chat.Options{
		Model:         s.opts.Model,
		ContactNumber: s.store.ContactNumber(),
		StreamTimeout: s.opts.StreamTimeout,
		Listener:      cs.forward,
	})
	s.sessions.add(cs)

	s.hlog.Info("chat session created", "session", cs.id)
	writeJSON(w, http.StatusCreated, s.sessionResponse(cs))
}

// sendMessageRequest is the POST body for a message dispatch.
type sendMessageRequest struct {
	Text string `json:"text"`
}

// sseEvent is the JSON payload of one server-sent event.
type sseEvent struct {
	Kind    string        `json:"kind"`
	Loading bool          `json:"loading"`
	Log     chat.Snapshot `json:"log"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	cs, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown chat session")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if !cs.streamMu.TryLock() {
		writeError(w, http.StatusConflict, chat.ErrBusy.Error())
		return
	}
	defer cs.streamMu.Unlock()

	// Headers go out lazily on the first event so that Send failures
	// before any observable change still get a proper JSON status.
	started := false
	cs.setSubscriber(func(ev chat.Event) {
		if !started {
			started = true
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
		}
		writeSSE(w, string(ev.Kind), sseEvent{
			Kind:    string(ev.Kind),
			Loading: ev.Loading,
			Log:     ev.Log,
		})
		flusher.Flush()
	})
	defer cs.setSubscriber(nil)

	err := cs.controller.Send(r.Context(), req.Text)
	switch {
	case errors.Is(err, chat.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, chat.ErrClosed):
		writeError(w, http.StatusGone, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !started {
		// The dispatch produced no observable change.
		writeJSON(w, http.StatusOK, s.sessionResponse(cs))
		return
	}

	writeSSE(w, "done", sseEvent{
		Kind:    "done",
		Loading: cs.controller.Loading(),
		Log:     cs.controller.Log(),
	})
	flusher.Flush()
}

func (s *Server) handleChatLog(w http.ResponseWriter, r *http.Request) {
	cs, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown chat session")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(cs))
}

func (s *Server) handleCloseChatSession(w http.ResponseWriter, r *http.Request) {
	cs, ok := s.sessions.remove(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown chat session")
		return
	}
	cs.controller.Close()
	s.hlog.Info("chat session closed", "session", cs.id)
	w.WriteHeader(http.StatusNoContent)
}

// writeSSE writes one named server-sent event with a JSON data line.
func writeSSE(w http.ResponseWriter, event string, payload sseEvent) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = w.Write([]byte("event: " + event + "\ndata: " + string(data) + "\n\n"))
}
