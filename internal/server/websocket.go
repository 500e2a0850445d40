// Package server exposes the WebSocket gateway: browser clients upgraded
// here join the same registry and broadcast pipeline as raw TCP clients.
package server

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketHandler upgrades the HTTP connection and hands it to a regular
// chat session. Each WebSocket text message carries one chat line.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.check,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(s.cfg.MaxMessageSize)

	s.debugf("accepted websocket connection from %s", conn.RemoteAddr())
	s.startBroadcaster()
	s.startSession(&wsLineConn{conn: conn})
}

// wsLineConn adapts a WebSocket connection to the session's line transport.
// One text message corresponds to one line, so no newline framing is needed
// on the wire.
type wsLineConn struct {
	conn *websocket.Conn

	wmu sync.Mutex
}

func (w *wsLineConn) ReadLine() (string, error) {
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (w *wsLineConn) WriteLine(line string) error {
	return w.WriteString(line)
}

func (w *wsLineConn) WriteString(s string) error {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, []byte(s))
}

func (w *wsLineConn) Close() error {
	return w.conn.Close()
}

func (w *wsLineConn) RemoteAddr() string {
	return w.conn.RemoteAddr().String()
}
