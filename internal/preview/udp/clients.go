package udp

import (
	"net"
	"sync"
	"time"
)

// clientIdleTimeout evicts clients unseen for this long (spec §4.5).
const clientIdleTimeout = 60 * time.Second

// client is one connected preview client, keyed by remote socket address.
type client struct {
	addr              string
	lastSeen          time.Time
	outboundSequence  uint32
	compressionEnabled bool
}

// clientTable is the UDP preview server's connection registry. Held
// under its own mutex; the fan-out loop clones a snapshot so network
// I/O never happens while the lock is held (spec §5).
type clientTable struct {
	mu      sync.Mutex
	clients map[string]*client
}

func newClientTable() *clientTable {
	return &clientTable{clients: make(map[string]*client)}
}

// Upsert inserts or refreshes a client entry on CONNECT, recording the
// compression flag from the sender's packet flags.
func (t *clientTable) Upsert(addr *net.UDPAddr, compressionEnabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := addr.String()

	c, ok := t.clients[key]
	if !ok {
		c = &client{addr: key}
		t.clients[key] = c
	}

	c.lastSeen = time.Now()
	c.compressionEnabled = compressionEnabled
}

// Touch refreshes a client's last-seen time (PING handling).
func (t *clientTable) Touch(addr *net.UDPAddr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.clients[addr.String()]; ok {
		c.lastSeen = time.Now()
	}
}

// Evict removes a client entry (DISCONNECT handling).
func (t *clientTable) Evict(addr *net.UDPAddr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.clients, addr.String())
}

// EvictStale removes every client unseen for longer than
// clientIdleTimeout, per the sender loop's step 1.
func (t *clientTable) EvictStale() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	cutoff := time.Now().Add(-clientIdleTimeout)

	for key, c := range t.clients {
		if c.lastSeen.Before(cutoff) {
			delete(t.clients, key)
			evicted++
		}
	}

	return evicted
}

// Snapshot returns a copy of every current client, safe to iterate
// outside the table's lock.
func (t *clientTable) Snapshot() []client {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]client, 0, len(t.clients))
	for _, c := range t.clients {
		out = append(out, *c)
	}

	return out
}

// Len reports the current client count.
func (t *clientTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.clients)
}

// NextSequence increments and returns the client's outbound sequence
// counter.
func (t *clientTable) NextSequence(addr string) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.clients[addr]
	if !ok {
		return 0
	}

	c.outboundSequence++

	return c.outboundSequence
}
