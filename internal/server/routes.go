// Package server wires the gateway's HTTP handlers into a ServeMux.
package server

import (
	"fmt"
	"net/http"
)

// Routes configures and returns the HTTP ServeMux for the gateway: health
// check at the root and the WebSocket endpoint at /ws.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.HealthHandler)
	mux.HandleFunc("/ws", s.WebSocketHandler)
	return mux
}

// HealthHandler provides a simple health check endpoint that reports server
// status and the number of connected clients.
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "partyline server is running! clients: %d\n", s.registry.Len())
}
