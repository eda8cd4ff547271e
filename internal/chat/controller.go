package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/mkoukoua/momochat/internal/session"
)

// FallbackText is appended when the backend replies without a usable
// response field.
const FallbackText = "MomoChat couldn't find an answer. Try rephrasing."

// ConnectionErrorText is the synthetic bot message appended when the chat
// request fails. The underlying error is logged, never shown to the user.
const ConnectionErrorText = "Connection error. Please try again."

var (
	// ErrEmptyMessage rejects submissions that are blank after trimming.
	ErrEmptyMessage = errors.New("chat: message is empty")
	// ErrBusy rejects a submission while a reply for the same session is
	// still pending. One chat request in flight per session, ever.
	ErrBusy = errors.New("chat: a reply is already pending for this session")
)

// Exchange is the pair of messages produced by one successful submission:
// the user's message and exactly one bot reply (real, fallback, or error).
type Exchange struct {
	User session.Message
	Bot  session.Message
}

// conversation is the live in-memory state of one session. The awaiting
// flag is the Idle/Awaiting-Reply state of the controller for that session.
type conversation struct {
	sess     *session.Session
	awaiting bool
}

// Controller orchestrates chat submissions: it appends the user message,
// calls the backend, and appends the reply or a synthetic error message.
// The in-memory conversation is authoritative; persistence is best-effort
// and failures never interrupt the message flow.
type Controller struct {
	store  *session.Store
	client *Client

	mu    sync.Mutex
	convs map[string]*conversation
}

// NewController creates a controller backed by the given store and client.
func NewController(store *session.Store, client *Client) *Controller {
	return &Controller{
		store:  store,
		client: client,
		convs:  make(map[string]*conversation),
	}
}

// Session returns a snapshot of the conversation for id. A persisted
// session with a non-empty log is restored verbatim; otherwise a fresh
// session containing only the welcome message is created (and the new id
// returned in the snapshot).
func (c *Controller) Session(ctx context.Context, id string) session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv := c.conversationLocked(ctx, id)
	return snapshot(conv.sess)
}

// Submit runs one full exchange: append the user message, call the backend,
// append the bot reply. It returns ErrBusy while a previous submission for
// the same session is still awaiting its reply, and ErrEmptyMessage for
// blank input. Every accepted submission ends with exactly one new bot
// message unless ctx is cancelled first, in which case the late reply is
// discarded.
func (c *Controller) Submit(ctx context.Context, sessionID, text string) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	conv := c.conversationLocked(ctx, sessionID)
	if conv.awaiting {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	conv.awaiting = true

	userMsg := session.NewMessage(session.SenderUser, text)
	conv.sess.Append(userMsg)
	conv.sess.QuickActions = false
	c.persistLocked(ctx, conv.sess)
	c.mu.Unlock()

	reply, sendErr := c.client.Send(ctx, text, conv.sess.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	conv.awaiting = false

	if ctx.Err() != nil {
		// The caller went away while the request was in flight. Discard the
		// pending reply instead of appending it to an abandoned view.
		log.Printf("chat: discarding reply for %s: %v", conv.sess.ID, ctx.Err())
		return nil, ctx.Err()
	}

	var botText string
	switch {
	case sendErr != nil:
		log.Printf("chat: backend call for %s failed: %v", conv.sess.ID, sendErr)
		botText = ConnectionErrorText
	case strings.TrimSpace(reply) == "":
		botText = FallbackText
	default:
		botText = reply
	}

	botMsg := session.NewMessage(session.SenderBot, botText)
	conv.sess.Append(botMsg)
	c.persistLocked(ctx, conv.sess)

	return &Exchange{User: userMsg, Bot: botMsg}, nil
}

// conversationLocked returns the live conversation for id, restoring it
// from the store or creating a fresh one. Callers must hold c.mu.
func (c *Controller) conversationLocked(ctx context.Context, id string) *conversation {
	if conv, ok := c.convs[id]; ok && id != "" {
		return conv
	}

	if id != "" {
		stored, err := c.store.Load(ctx, id)
		if err != nil {
			log.Printf("chat: loading session %s: %v (starting fresh)", id, err)
		}
		if stored != nil {
			conv := &conversation{sess: stored}
			c.convs[stored.ID] = conv
			return conv
		}
	}

	sess := session.New()
	conv := &conversation{sess: sess}
	c.convs[sess.ID] = conv
	c.persistLocked(ctx, sess)
	return conv
}

// persistLocked saves the session, tolerating storage failures: the
// conversation continues from memory and the error is only logged.
func (c *Controller) persistLocked(ctx context.Context, sess *session.Session) {
	if err := c.store.Save(ctx, sess); err != nil {
		log.Printf("chat: persisting session %s: %v (continuing in memory)", sess.ID, err)
	}
}

// snapshot copies a session so callers can read it without holding the
// controller lock.
func snapshot(sess *session.Session) session.Session {
	out := *sess
	out.Messages = make([]session.Message, len(sess.Messages))
	copy(out.Messages, sess.Messages)
	return out
}
