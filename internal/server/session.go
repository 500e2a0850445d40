// Package server runs the per-connection session lifecycle: username
// handshake, registration, the read loop, and idempotent teardown.
package server

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// usernamePrompt is written verbatim on connect, with no trailing newline.
const usernamePrompt = "> Type your username: "

// startSession launches the session goroutine for a freshly accepted
// transport. The acceptor never waits for a session to finish.
func (s *Server) startSession(conn lineConn) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSession(conn)
	}()
}

// runSession drives the session state machine: Connecting (handshake),
// Active (read loop), Terminating (teardown), Closed. Any I/O failure while
// reading is treated identically to an explicit /quit and never propagates
// beyond this session.
func (s *Server) runSession(conn lineConn) {
	client, err := s.handshake(conn)
	if err != nil {
		s.debugf("session %s: handshake failed: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}

	s.registry.Add(client)
	s.greetHistory(client)
	s.queue.Publish(NewMessage(SystemSender, fmt.Sprintf("The user %q joined to the party!", client.name)))
	s.debugf("session %s: %q joined (id %s)", client.addr, client.name, client.id)

	reason := s.readLoop(client)
	s.dropClient(client, reason)
}

// handshake prompts for a display name and reads exactly one line as the
// answer. The name is not validated and need not be unique; only the remote
// address keys the registry.
func (s *Server) handshake(conn lineConn) (*Client, error) {
	if err := conn.WriteString(usernamePrompt); err != nil {
		return nil, err
	}
	name, err := conn.ReadLine()
	if err != nil {
		return nil, err
	}
	return &Client{
		id:   uuid.NewString(),
		name: strings.TrimSpace(name),
		addr: conn.RemoteAddr(),
		conn: conn,
	}, nil
}

// greetHistory sends the newest log entries privately to a just-joined
// client. A failed write here is picked up by the read loop shortly after.
func (s *Server) greetHistory(client *Client) {
	if s.cfg.HistoryGreets <= 0 {
		return
	}
	tail := s.msglog.Tail(s.cfg.HistoryGreets)
	if len(tail) == 0 {
		return
	}
	_ = client.conn.WriteLine(strings.Join(tail, "\n"))
}

// readLoop consumes lines until /quit or a read failure and reports why it
// stopped. Command replies go straight back to the requester; everything
// else non-empty is published for broadcast.
func (s *Server) readLoop(client *Client) (reason string) {
	for {
		line, err := client.conn.ReadLine()
		if err != nil {
			if isExpectedCloseError(err) {
				return "disconnected"
			}
			return fmt.Sprintf("read failed: %v", err)
		}
		if line == "" {
			continue
		}

		name, arg := splitCommand(line)
		if name == cmdQuit {
			return "quit"
		}
		if reply, ok := s.commands.Reply(name, arg); ok {
			if err := client.conn.WriteLine(reply); err != nil {
				return fmt.Sprintf("reply write failed: %v", err)
			}
			continue
		}

		s.queue.Publish(NewMessage(client.name, line))
	}
}

// dropClient runs the shared Terminating transition exactly once per client:
// remove from the registry, broadcast the departure notice, close the
// connection. It is safe to call from both the session and the broadcaster.
func (s *Server) dropClient(client *Client, reason string) {
	client.teardown.Do(func() {
		s.registry.Remove(client.addr)
		s.queue.Publish(NewMessage(SystemSender, fmt.Sprintf("The user %q exited from the party :(", client.name)))
		_ = client.conn.Close()
		s.debugf("session %s: %q closed (%s)", client.addr, client.name, reason)
	})
}
