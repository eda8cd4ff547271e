package widget

import (
	_ "embed"
	"net/http"
)

//go:embed landing.html
var landingHTML []byte

//go:embed chat.html
var chatHTML []byte

// ServeLanding serves the embedded landing page.
func (wd *Widget) ServeLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(landingHTML)
}

// ServeChat serves the embedded chat page.
func (wd *Widget) ServeChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(chatHTML)
}
