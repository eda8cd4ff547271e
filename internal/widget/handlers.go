package widget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkoukoua/momochat/internal/chat"
	"github.com/mkoukoua/momochat/internal/linkify"
	"github.com/mkoukoua/momochat/internal/session"
)

// apiMessage is one message as rendered to the page. Bot messages carry
// their link segments; user messages never do (the renderer does not
// auto-linkify what the user typed).
type apiMessage struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Sender   session.Sender    `json:"sender"`
	Segments []linkify.Segment `json:"segments,omitempty"`
}

// sessionRequest asks for an existing session by id, or a fresh one when
// the id is empty or unknown.
type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// sessionResponse returns the (possibly new) session and its full log.
type sessionResponse struct {
	SessionID    string       `json:"session_id"`
	QuickActions bool         `json:"quick_actions"`
	Messages     []apiMessage `json:"messages"`
}

// chatSubmitRequest mirrors the backend wire contract so the page JS is
// agnostic about whether it talks to this API or to the backend directly.
type chatSubmitRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatSubmitResponse struct {
	Response string            `json:"response"`
	Segments []linkify.Segment `json:"segments,omitempty"`
}

func (wd *Widget) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if r.Body != nil {
		// An empty or malformed body is fine: it means "new session".
		json.NewDecoder(r.Body).Decode(&req)
	}

	sess := wd.controller.Session(r.Context(), req.SessionID)
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:    sess.ID,
		QuickActions: sess.QuickActions,
		Messages:     renderMessages(sess.Messages),
	})
}

func (wd *Widget) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	ex, err := wd.controller.Submit(r.Context(), req.SessionID, req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	case errors.Is(err, chat.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a reply is already pending for this session"})
		return
	case err != nil:
		// Context cancellation: the client is gone, nobody reads this.
		return
	}

	writeJSON(w, http.StatusOK, chatSubmitResponse{
		Response: ex.Bot.Text,
		Segments: linkify.Render(ex.Bot.Text),
	})
}

// renderMessages projects stored messages into their display form, running
// bot text through the link renderer.
func renderMessages(messages []session.Message) []apiMessage {
	out := make([]apiMessage, 0, len(messages))
	for _, m := range messages {
		am := apiMessage{ID: m.ID, Text: m.Text, Sender: m.Sender}
		if m.Sender == session.SenderBot {
			am.Segments = linkify.Render(m.Text)
		}
		out = append(out, am)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
