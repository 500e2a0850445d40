package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingConn is a lineConn stub that records every written line and
// serves scripted reads. Reads block until a line is queued or the conn is
// closed.
type recordingConn struct {
	addr string

	mu     sync.Mutex
	rwake  *sync.Cond
	inbox  []string
	lines  []string
	closed bool
}

func newRecordingConn(addr string) *recordingConn {
	c := &recordingConn{addr: addr}
	c.rwake = sync.NewCond(&c.mu)
	return c
}

func (c *recordingConn) ReadLine() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.inbox) == 0 && !c.closed {
		c.rwake.Wait()
	}
	if len(c.inbox) == 0 {
		return "", io.EOF
	}
	line := c.inbox[0]
	c.inbox = c.inbox[1:]
	return line, nil
}

func (c *recordingConn) WriteLine(line string) error { return c.WriteString(line + "\n") }

func (c *recordingConn) WriteString(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("recordingConn: closed")
	}
	c.lines = append(c.lines, s)
	return nil
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.rwake.Broadcast()
	return nil
}

func (c *recordingConn) RemoteAddr() string { return c.addr }

// push queues a line for the session's next ReadLine.
func (c *recordingConn) push(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbox = append(c.inbox, line)
	c.rwake.Signal()
}

// written returns a copy of everything written so far.
func (c *recordingConn) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// waitWritten polls until at least n writes have been recorded or the
// timeout expires.
func (c *recordingConn) waitWritten(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if lines := c.written(); len(lines) >= n {
			return lines
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %d writes, got %v", n, c.written())
	return nil
}

// failingConn is a lineConn stub whose writes always fail, used to exercise
// broadcast self-healing.
type failingConn struct {
	addr string
}

func (c *failingConn) ReadLine() (string, error)    { return "", io.EOF }
func (c *failingConn) WriteLine(string) error       { return errors.New("failingConn: write refused") }
func (c *failingConn) WriteString(string) error     { return errors.New("failingConn: write refused") }
func (c *failingConn) Close() error                 { return nil }
func (c *failingConn) RemoteAddr() string           { return c.addr }

// chatPeer wraps the client half of a TCP connection to the server for
// integration tests: it answers the username prompt and reads framed lines
// with a deadline.
type chatPeer struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dialPeer(t *testing.T, addr, name string) *chatPeer {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Failed to dial chat server: %v", err)
	}
	p := &chatPeer{t: t, conn: conn, r: bufio.NewReader(conn)}
	p.expectPrompt()
	p.send(name)
	return p
}

func (p *chatPeer) expectPrompt() {
	p.t.Helper()
	buf := make([]byte, len(usernamePrompt))
	_ = p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := io.ReadFull(p.r, buf); err != nil {
		p.t.Fatalf("Failed to read username prompt: %v", err)
	}
	if string(buf) != usernamePrompt {
		p.t.Fatalf("Unexpected prompt %q", string(buf))
	}
}

func (p *chatPeer) send(line string) {
	p.t.Helper()
	if _, err := p.conn.Write([]byte(line + "\n")); err != nil {
		p.t.Fatalf("Failed to send %q: %v", line, err)
	}
}

// recv reads one line, failing the test on timeout.
func (p *chatPeer) recv() string {
	p.t.Helper()
	_ = p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := p.r.ReadString('\n')
	if err != nil {
		p.t.Fatalf("Failed to read line: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

// recvContaining reads lines until one contains want.
func (p *chatPeer) recvContaining(want string) string {
	p.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		line := p.recv()
		if strings.Contains(line, want) {
			return line
		}
	}
	p.t.Fatalf("Never received line containing %q", want)
	return ""
}

func (p *chatPeer) close() {
	_ = p.conn.Close()
}

// startTestServer boots a server with the broadcaster running and a real
// TCP listener on a loopback port. History greeting is disabled unless the
// test opts in.
func startTestServer(t *testing.T, cfg *Config) (*Server, string) {
	t.Helper()
	if cfg == nil {
		cfg = &Config{HistoryGreets: -1}
	}
	srv := NewServer(cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go srv.Serve(ln)
	t.Cleanup(func() {
		_ = srv.Shutdown(2 * time.Second)
	})
	return srv, ln.Addr().String()
}
