package replication

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/luiz-simples/replikv.git/internal/events"
)

// ReplicaLink is the leader's handle on one attached replica.
type ReplicaLink struct {
	*events.Subscriber

	replID   string
	offset   int64
	id       int64
	addr     string
	port     int
	snapshot []byte
	acked    atomic.Int64
	detach   func(id int64)
	once     sync.Once
}

func (link *ReplicaLink) Name() string {
	return net.JoinHostPort(link.addr, strconv.Itoa(link.port))
}

// ReplID and Offset are the leader's position when the replica attached,
// which is what its FULLRESYNC reply advertises.
func (link *ReplicaLink) ReplID() string {
	return link.replID
}

func (link *ReplicaLink) Offset() int64 {
	return link.offset
}

func (link *ReplicaLink) Snapshot() []byte {
	return link.snapshot
}

func (link *ReplicaLink) Acknowledge(offset int64) {
	link.acked.Store(offset)
}

func (link *ReplicaLink) Acked() int64 {
	return link.acked.Load()
}

func (link *ReplicaLink) Close() {
	link.once.Do(func() {
		link.Subscriber.Close()
		link.detach(link.id)
	})
}
