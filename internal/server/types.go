// Package server defines the shared message value and utility helpers that
// are reused across session and broadcaster logic.
package server

import (
	"fmt"
	"strings"
	"time"
)

// SystemSender is the reserved identity used for join/leave and other
// server-generated notices.
const SystemSender = "@server"

// Message is an immutable chat event. It is constructed at the moment the
// content is accepted and never mutated afterwards.
type Message struct {
	Sender string
	Body   string
	Stamp  time.Time
}

// NewMessage builds a Message stamped with the current wall-clock time.
func NewMessage(sender, body string) Message {
	return Message{Sender: sender, Body: body, Stamp: time.Now()}
}

// Format renders the message into its wire representation:
//
//	|HH:MM:SS| [senderName]: content
func (m Message) Format() string {
	return fmt.Sprintf("|%s| [%s]: %s", m.Stamp.Format("15:04:05"), m.Sender, m.Body)
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "broken pipe")
}
