// Package proxy forwards chat requests from the widget to the real backend,
// so browsers never see the backend URL and CORS stays local.
package proxy

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Forwarder relays POST bodies to {backend}/chat and passes the response
// through verbatim. It implements http.Handler and performs its own method
// and configuration checks so it can be mounted on any mux.
type Forwarder struct {
	backendURL string
	http       *http.Client
}

// NewForwarder creates a forwarder targeting the backend at backendURL.
// An empty backendURL is tolerated at construction; requests then fail
// with a configuration error.
func NewForwarder(backendURL string) *Forwarder {
	return &Forwarder{
		backendURL: strings.TrimRight(backendURL, "/"),
		http:       &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed. Only POST requests are supported.")
		return
	}

	if f.backendURL == "" {
		log.Printf("proxy: backend URL is not configured")
		writeError(w, http.StatusInternalServerError, "Server misconfiguration: Backend URL is not defined.")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, f.backendURL+"/chat", r.Body)
	if err != nil {
		log.Printf("proxy: building upstream request: %v", err)
		writeError(w, http.StatusInternalServerError, "Server misconfiguration: Backend URL is not valid.")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		log.Printf("proxy: upstream request failed: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to connect to the external API server.")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("proxy: backend returned status %d: %s", resp.StatusCode, body)
		writeError(w, resp.StatusCode, "Backend API failed: "+http.StatusText(resp.StatusCode))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("proxy: relaying response body: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
