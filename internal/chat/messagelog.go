package chat

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who produced a chat turn.
type Speaker string

// The two conversation roles. The remote API calls the assistant role
// "model"; that mapping lives in the Gemini client, not here.
const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Greeting seeds every new message log, so a log is never empty.
const Greeting = "Hi! I am the Buy Xtra virtual assistant. How can I help you today?"

// Turn is one message in the conversation. Turns are frozen once a newer
// turn exists after them; only the final turn is ever mutated, and only to
// accumulate streamed assistant text.
type Turn struct {
	ID        string    `json:"id"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is a read-only copy of the log handed to observers. Version
// increases by one on every mutation so renderers can detect staleness.
type Snapshot struct {
	Turns   []Turn `json:"turns"`
	Version uint64 `json:"version"`
}

// Logic errors from AppendToLast. These indicate a controller bug, not a
// runtime condition; the controller's dispatch sequencing makes them
// unreachable in normal operation.
var (
	ErrEmptyLog         = errors.New("message log is empty")
	ErrLastNotAssistant = errors.New("last turn is not an assistant turn")
)

// MessageLog is the append-only conversation record with one privileged
// mutable-tail operation. It is not safe for concurrent use; the owning
// controller serializes access.
type MessageLog struct {
	turns   []Turn
	version uint64
}

// NewMessageLog returns a log seeded with the assistant greeting.
func NewMessageLog() *MessageLog {
	l := &MessageLog{}
	l.Append(SpeakerAssistant, Greeting)
	return l
}

// Append adds a new turn at the end of the log.
func (l *MessageLog) Append(speaker Speaker, text string) {
	l.turns = append(l.turns, Turn{
		ID:        uuid.NewString(),
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
	})
	l.version++
}

// AppendToLast accumulates streamed text onto the final turn. The final
// turn must exist and belong to the assistant.
func (l *MessageLog) AppendToLast(text string) error {
	if len(l.turns) == 0 {
		return ErrEmptyLog
	}
	last := &l.turns[len(l.turns)-1]
	if last.Speaker != SpeakerAssistant {
		return ErrLastNotAssistant
	}
	last.Text += text
	l.version++
	return nil
}

// Len returns the number of turns.
func (l *MessageLog) Len() int {
	return len(l.turns)
}

// Last returns the final turn. It panics on an empty log, which cannot
// happen after NewMessageLog.
func (l *MessageLog) Last() Turn {
	return l.turns[len(l.turns)-1]
}

// Snapshot returns a stable copy of the log with its current version.
func (l *MessageLog) Snapshot() Snapshot {
	turns := make([]Turn, len(l.turns))
	copy(turns, l.turns)
	return Snapshot{Turns: turns, Version: l.version}
}
