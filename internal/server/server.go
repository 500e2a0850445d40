// Package server ties the registry, queue, broadcaster, and acceptor
// together into the partyline chat server.
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"time"
)

// Server owns the shared chat state and the connection accept loop. All
// components are constructed once here and passed by reference; there are no
// package-level singletons.
type Server struct {
	cfg      Config
	registry *Registry
	queue    *MessageQueue
	msglog   *MessageLog
	commands *CommandProcessor
	caster   *Broadcaster
	origins  *originPolicy
	started  time.Time

	wg sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
	serving  bool
}

// NewServer builds a server from the given configuration. Passing nil uses
// the defaults.
func NewServer(cfg *Config) *Server {
	if cfg == nil {
		cfg = NewConfig()
	}
	sanitized := sanitizeConfig(*cfg)

	s := &Server{
		cfg:      sanitized,
		registry: NewRegistry(),
		queue:    NewMessageQueue(),
		msglog:   NewMessageLog(),
		origins:  newOriginPolicy(sanitized.AllowedOrigins),
		started:  time.Now(),
	}
	s.commands = NewCommandProcessor(s.registry, s.msglog, s.started)
	s.caster = NewBroadcaster(s.queue, s.registry, s.msglog, s.dropClient)
	return s
}

// Serve runs the accept loop on an already-bound listener until the listener
// is closed. Binding the address is the caller's concern so bind failures
// surface before any serving starts. Each accepted connection gets its own
// session goroutine; accept never waits on a session.
func (s *Server) Serve(ln net.Listener) {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.startBroadcaster()

	log.Printf("Chat server listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// Transient per-connection failure; the listener is still usable.
			log.Printf("Accept failed: %v", err)
			continue
		}
		s.debugf("accepted connection from %s", conn.RemoteAddr())
		s.startSession(newTCPLineConn(conn, s.cfg.MaxMessageSize))
	}
}

// startBroadcaster launches the single consumer goroutine once. The
// WebSocket gateway relies on it too, so it must not depend on Serve.
func (s *Server) startBroadcaster() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return
	}
	s.serving = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.caster.Run()
	}()
}

// Shutdown stops accepting, lets the broadcaster drain pending messages,
// closes every client connection, and waits for all goroutines up to the
// given timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	log.Println("Shutting down chat server...")

	s.mu.Lock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	serving := s.serving
	s.mu.Unlock()

	s.queue.Close()
	if serving {
		<-s.caster.Done()
	}

	for _, client := range s.registry.Snapshot() {
		_ = client.conn.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Chat server shutdown completed")
		return nil
	case <-time.After(timeout):
		log.Println("Chat server shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
