package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// WelcomeText is the synthetic greeting that opens every new conversation.
const WelcomeText = "Yello Charismatique! Comment puis-je vous assister avec les services MTN MoMo aujourd'hui?"

// Message is a single immutable entry in a session's message log.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a persisted conversation: an opaque identifier plus an
// append-only message log. QuickActions is true until the first user
// submission, then permanently false for the session's lifetime.
type Session struct {
	ID           string    `json:"session_id"`
	Messages     []Message `json:"messages"`
	QuickActions bool      `json:"quick_actions"`
	CreatedAt    time.Time `json:"created_at"`
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID generates a session identifier of the form
// session_<unix-millis>_<7 random chars>. The timestamp keeps ids sortable
// and the random suffix avoids collisions across concurrent clients.
func NewID() string {
	suffix := make([]byte, 7)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idAlphabet))))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken;
			// fall back to a timestamp-derived character.
			suffix[i] = idAlphabet[time.Now().UnixNano()%int64(len(idAlphabet))]
			continue
		}
		suffix[i] = idAlphabet[n.Int64()]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

// NewMessage creates a message with a fresh unique id.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		CreatedAt: time.Now().UTC(),
	}
}

// New creates a fresh session containing only the welcome message.
func New() *Session {
	return &Session{
		ID:           NewID(),
		Messages:     []Message{NewMessage(SenderBot, WelcomeText)},
		QuickActions: true,
		CreatedAt:    time.Now().UTC(),
	}
}

// Append adds a message to the end of the log.
func (s *Session) Append(m Message) {
	s.Messages = append(s.Messages, m)
}

// LastMessage returns the most recent message, or a zero Message for an
// empty log.
func (s *Session) LastMessage() Message {
	if len(s.Messages) == 0 {
		return Message{}
	}
	return s.Messages[len(s.Messages)-1]
}
