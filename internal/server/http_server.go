// Package server constructs and stops the gateway HTTP service with helpers
// that apply sensible production defaults.
package server

import (
	"context"
	"log"
	"net/http"
	"time"
)

// CreateHTTPServer creates an HTTP server for the gateway with the specified
// address and handler. It sets reasonable timeout values for production use.
func CreateHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// ShutdownHTTPServer gracefully shuts down the gateway without interrupting
// active connections, waiting at most the given timeout.
func ShutdownHTTPServer(server *http.Server, timeout time.Duration) error {
	log.Println("Shutting down HTTP gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP gateway shutdown error: %v", err)
		return err
	}

	log.Println("HTTP gateway shutdown completed")
	return nil
}
