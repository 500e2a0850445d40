package server

import "sync"

// MessageLog is the append-only in-memory record of every formatted message
// the broadcaster has processed. It grows for the lifetime of the server.
type MessageLog struct {
	mu      sync.RWMutex
	entries []string
}

// NewMessageLog creates an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append records one formatted message line.
func (l *MessageLog) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, line)
}

// Tail returns up to n of the most recent entries, newest first. It never
// returns more entries than currently logged; n <= 0 yields an empty slice.
func (l *MessageLog) Tail(n int) []string {
	if n <= 0 {
		return []string{}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	tail := make([]string, n)
	for i := 0; i < n; i++ {
		tail[i] = l.entries[len(l.entries)-1-i]
	}
	return tail
}

// Len reports the number of logged entries.
func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
