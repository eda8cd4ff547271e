// Package widget serves the MoMoChat landing and chat pages and the API
// the page JavaScript talks to. The heavy lifting lives in the chat
// controller; this package is transport.
package widget

import (
	"github.com/go-chi/chi/v5"

	"github.com/mkoukoua/momochat/internal/chat"
)

// Widget bundles the embedded pages with their API handlers.
type Widget struct {
	controller *chat.Controller
}

// New creates a widget around the given chat controller.
func New(controller *chat.Controller) *Widget {
	return &Widget{controller: controller}
}

// RegisterRoutes mounts all widget routes onto the given router.
func (wd *Widget) RegisterRoutes(r chi.Router) {
	r.Get("/", wd.ServeLanding)
	r.Get("/chat", wd.ServeChat)
	r.Post("/api/session", wd.handleSession)
	r.Post("/api/chat", wd.handleChat)
	r.Get("/ws/chat", wd.handleWebSocket)
}
