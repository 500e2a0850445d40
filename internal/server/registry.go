// Package server tracks connected clients in a shared registry keyed by
// remote address, with stable snapshots for lock-free fan-out.
package server

import "sync"

// Client is the registry's handle for one connected peer. The connection is
// exclusively owned by the session goroutine that created the client; the
// registry only keeps a reference for lookup and broadcast.
type Client struct {
	id   string
	name string
	addr string
	conn lineConn

	teardown sync.Once
}

// Name returns the display name chosen during the username handshake.
func (c *Client) Name() string { return c.name }

// Addr returns the string form of the peer address, the registry key.
func (c *Client) Addr() string { return c.addr }

// Registry is the shared directory of currently connected clients. All
// mutations and snapshot reads are mutually exclusive; iteration for
// broadcast always works on a copy so the lock is never held across network
// writes.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
	order   []string
}

// NewRegistry creates an empty client registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Add inserts the client unconditionally. The remote address is unique per
// live connection, so a colliding entry can only be a stale one left by the
// same address reconnecting; it is replaced in place.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.addr]; !ok {
		r.order = append(r.order, c.addr)
	}
	r.clients[c.addr] = c
}

// Remove deletes the entry matching addr if present, no-op otherwise.
func (r *Registry) Remove(addr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[addr]; !ok {
		return
	}
	delete(r.clients, addr)
	for i, a := range r.order {
		if a == addr {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns a point-in-time copy of the registered clients in
// registration order, safe to iterate without holding the lock.
func (r *Registry) Snapshot() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients := make([]*Client, 0, len(r.order))
	for _, addr := range r.order {
		clients = append(clients, r.clients[addr])
	}
	return clients
}

// Names returns the display names of all registered clients in snapshot order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.order))
	for _, addr := range r.order {
		names = append(names, r.clients[addr].name)
	}
	return names
}

// Len reports the number of registered clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
