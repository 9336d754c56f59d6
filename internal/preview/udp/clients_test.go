package udp

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpsertThenSnapshotReflectsCompressionFlag(t *testing.T) {
	table := newClientTable()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	table.Upsert(addr, true)

	snap := table.Snapshot()
	assert.Len(t, snap, 1)
	assert.True(t, snap[0].compressionEnabled)
}

func TestEvictRemovesClient(t *testing.T) {
	table := newClientTable()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	table.Upsert(addr, false)
	table.Evict(addr)

	assert.Equal(t, 0, table.Len())
}

func TestEvictStaleRemovesOnlyOldClients(t *testing.T) {
	table := newClientTable()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	table.Upsert(addr, false)
	table.clients[addr.String()].lastSeen = time.Now().Add(-90 * time.Second)

	evicted := table.EvictStale()
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 0, table.Len())
}

func TestNextSequenceIncrementsMonotonically(t *testing.T) {
	table := newClientTable()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
	table.Upsert(addr, false)

	first := table.NextSequence(addr.String())
	second := table.NextSequence(addr.String())

	assert.Equal(t, uint32(1), first)
	assert.Equal(t, uint32(2), second)
}
