package replication

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/events"
	"github.com/luiz-simples/replikv.git/internal/logger"
	"github.com/luiz-simples/replikv.git/internal/resp"
)

// Leader owns the replication id, the write offset and the set of
// attached replicas.
type Leader struct {
	replID   string
	offset   atomic.Int64
	producer *events.Producer
	snapshot []byte

	mutex    sync.Mutex
	replicas map[int64]*ReplicaLink
}

func NewLeader(producer *events.Producer) *Leader {
	return &Leader{
		replID:   newReplID(),
		producer: producer,
		snapshot: EmptySnapshot(),
		replicas: make(map[int64]*ReplicaLink),
	}
}

func (leader *Leader) ReplID() string {
	return leader.replID
}

func (leader *Leader) Offset() int64 {
	return leader.offset.Load()
}

// Propagate advances the offset by the frame the replicas will receive and
// fans the event out.
func (leader *Leader) Propagate(event domain.Event) {
	leader.mutex.Lock()
	defer leader.mutex.Unlock()

	leader.offset.Add(int64(len(resp.Serialize(event.Command()))))
	leader.producer.Emit(event)
}

// Attach subscribes a replica. It runs when PSYNC is answered, before the
// snapshot is written, so no write after the FULLRESYNC offset is missed.
func (leader *Leader) Attach(id int64, addr string, port int) *ReplicaLink {
	leader.mutex.Lock()
	defer leader.mutex.Unlock()

	link := &ReplicaLink{
		Subscriber: leader.producer.Subscribe(),
		replID:     leader.replID,
		offset:     leader.Offset(),
		id:         id,
		addr:       addr,
		port:       port,
		snapshot:   leader.snapshot,
		detach:     leader.detach,
	}

	leader.replicas[id] = link
	logger.Info("replica attached", "replica", link.Name(), "offset", leader.Offset())

	return link
}

func (leader *Leader) Replicas() int {
	leader.mutex.Lock()
	defer leader.mutex.Unlock()

	return len(leader.replicas)
}

func (leader *Leader) Role() string {
	return "master"
}

func (leader *Leader) Info() []domain.InfoField {
	leader.mutex.Lock()
	links := make([]*ReplicaLink, 0, len(leader.replicas))
	for _, link := range leader.replicas {
		links = append(links, link)
	}
	leader.mutex.Unlock()

	sort.Slice(links, func(left, right int) bool {
		return links[left].id < links[right].id
	})

	fields := []domain.InfoField{
		{Name: "role", Value: leader.Role()},
		{Name: "connected_slaves", Value: itoa(int64(len(links)))},
	}

	for index, link := range links {
		fields = append(fields, domain.InfoField{
			Name:  fmt.Sprintf("slave%d", index),
			Value: fmt.Sprintf("ip=%s,port=%d,state=online,offset=%d,lag=0", link.addr, link.port, link.Acked()),
		})
	}

	return append(fields,
		domain.InfoField{Name: "master_replid", Value: leader.replID},
		domain.InfoField{Name: "master_repl_offset", Value: itoa(leader.Offset())},
	)
}

func (leader *Leader) Close() {
	leader.producer.Close()
}

func (leader *Leader) detach(id int64) {
	leader.mutex.Lock()
	defer leader.mutex.Unlock()

	if link, found := leader.replicas[id]; found {
		delete(leader.replicas, id)
		logger.Info("replica detached", "replica", link.Name())
	}
}
