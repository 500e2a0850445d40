package server

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
)

// lineConn abstracts a newline-framed client transport so the same session
// state machine can run over raw TCP and over the WebSocket gateway.
// Writes are serialized internally: concurrent broadcast and command-reply
// writers never interleave partial lines.
type lineConn interface {
	// ReadLine blocks until one line arrives, framing stripped.
	ReadLine() (string, error)
	// WriteLine writes one complete framed line.
	WriteLine(line string) error
	// WriteString writes raw text without framing, used for the name prompt.
	WriteString(s string) error
	Close() error
	RemoteAddr() string
}

type tcpLineConn struct {
	conn net.Conn
	scan *bufio.Scanner

	wmu sync.Mutex
}

// newTCPLineConn wraps a stream connection. maxLine caps the length of a
// single inbound line; an oversized line surfaces as a read error, which the
// session treats the same as a disconnect.
func newTCPLineConn(conn net.Conn, maxLine int64) *tcpLineConn {
	scan := bufio.NewScanner(conn)
	if maxLine > 0 {
		scan.Buffer(nil, int(maxLine))
	}
	return &tcpLineConn{conn: conn, scan: scan}
}

func (t *tcpLineConn) ReadLine() (string, error) {
	if t.scan.Scan() {
		return strings.TrimRight(t.scan.Text(), "\r"), nil
	}
	if err := t.scan.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (t *tcpLineConn) WriteLine(line string) error {
	return t.WriteString(line + "\n")
}

func (t *tcpLineConn) WriteString(s string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	_, err := io.WriteString(t.conn, s)
	return err
}

func (t *tcpLineConn) Close() error {
	return t.conn.Close()
}

func (t *tcpLineConn) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
