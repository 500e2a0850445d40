package server

import "sync"

// MessageQueue is the ordered hand-off between message producers (sessions,
// join/leave notices) and the single broadcaster consumer. Publishing never
// blocks on the consumer; the consumer blocks only while the queue is empty.
// Delivery discipline is strictly first-in-first-out.
type MessageQueue struct {
	mu     sync.Mutex
	nempty *sync.Cond
	items  []Message
	closed bool
}

// NewMessageQueue creates an empty, open queue.
func NewMessageQueue() *MessageQueue {
	q := &MessageQueue{}
	q.nempty = sync.NewCond(&q.mu)
	return q
}

// Publish enqueues the message and signals availability. Messages published
// after Close are dropped.
func (q *MessageQueue) Publish(m Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, m)
	q.nempty.Signal()
}

// Next blocks until at least one message is available and dequeues exactly
// one. After Close it keeps returning pending messages in order; once the
// queue is drained it reports ok=false.
func (q *MessageQueue) Next() (m Message, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.nempty.Wait()
	}
	if len(q.items) == 0 {
		return Message{}, false
	}
	m = q.items[0]
	q.items = q.items[1:]
	return m, true
}

// Close stops accepting messages and wakes the consumer so it can drain the
// remainder and stop.
func (q *MessageQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.nempty.Broadcast()
}

// Len reports the number of pending messages.
func (q *MessageQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
