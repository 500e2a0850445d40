// Package server coordinates message fan-out from the queue to every
// registered client via the Broadcaster type.
package server

import "log"

// Broadcaster is the single consumer of the message queue. It processes one
// message at a time: format, append to the log, then write to every client
// in a registry snapshot. A failed write evicts that client without
// interrupting delivery to the rest.
type Broadcaster struct {
	queue    *MessageQueue
	registry *Registry
	msglog   *MessageLog
	// evict runs the shared session teardown for a client whose write failed.
	evict func(*Client, string)
	done  chan struct{}
}

// NewBroadcaster wires the broadcaster to its queue, registry, and log.
// evict is invoked for every client whose write fails mid-broadcast.
func NewBroadcaster(queue *MessageQueue, registry *Registry, msglog *MessageLog, evict func(*Client, string)) *Broadcaster {
	return &Broadcaster{
		queue:    queue,
		registry: registry,
		msglog:   msglog,
		evict:    evict,
		done:     make(chan struct{}),
	}
}

// Run drains the queue until it is closed and empty. This method should be
// called in a dedicated goroutine; messages are delivered to all clients in
// the exact order they were published.
func (b *Broadcaster) Run() {
	defer close(b.done)

	for {
		msg, ok := b.queue.Next()
		if !ok {
			return
		}
		b.deliver(msg)
	}
}

// Done is closed once Run has drained the queue and returned.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) deliver(msg Message) {
	line := msg.Format()
	b.msglog.Append(line)

	for _, client := range b.registry.Snapshot() {
		if err := client.conn.WriteLine(line); err != nil {
			if !isExpectedCloseError(err) {
				log.Printf("Broadcast write to %s failed: %v", client.addr, err)
			}
			if b.evict != nil {
				b.evict(client, "broadcast write failed")
			}
		}
	}
}
