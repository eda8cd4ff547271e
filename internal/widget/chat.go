package widget

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mkoukoua/momochat/internal/chat"
	"github.com/mkoukoua/momochat/internal/linkify"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"`       // "message"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string            `json:"type"` // "response" or "error"
	SessionID string            `json:"session_id"`
	Content   string            `json:"content"`
	Segments  []linkify.Segment `json:"segments,omitempty"`
}

func (wd *Widget) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("widget: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("widget: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			wd.sendError(conn, "", "invalid message format")
			continue
		}

		switch req.Type {
		case "message":
			wd.handleChatFrame(conn, r, req)
		default:
			wd.sendError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (wd *Widget) handleChatFrame(conn *websocket.Conn, r *http.Request, req wsRequest) {
	ctx := r.Context()

	// Create or restore the session so the exchange has a home.
	sess := wd.controller.Session(ctx, req.SessionID)

	ex, err := wd.controller.Submit(ctx, sess.ID, req.Content)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		wd.sendError(conn, sess.ID, "content is required")
		return
	case errors.Is(err, chat.ErrBusy):
		wd.sendError(conn, sess.ID, "a reply is already pending for this session")
		return
	case err != nil:
		// Connection teardown; the reply was discarded upstream.
		return
	}

	wd.sendResponse(conn, wsResponse{
		Type:      "response",
		SessionID: sess.ID,
		Content:   ex.Bot.Text,
		Segments:  linkify.Render(ex.Bot.Text),
	})
}

func (wd *Widget) sendResponse(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("widget: websocket write: %v", err)
	}
}

func (wd *Widget) sendError(conn *websocket.Conn, sessionID, message string) {
	resp := wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("widget: websocket write error: %v", err)
	}
}
