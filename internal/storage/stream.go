package storage

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

const btreeDegree = 16

var (
	errZeroID = domain.NewInvalidStoreError("ERR The ID specified in XADD must be greater than 0-0")
	errTopID  = domain.NewInvalidStoreError("ERR The ID specified in XADD is equal or smaller than the target stream top item")
)

type (
	stream struct {
		entries *btree.BTreeG[domain.StreamEntry]
		last    domain.StreamID
	}

	// Streams holds every stream key. Blocked readers wait on notify, which
	// is closed and replaced on each append.
	Streams struct {
		mutex   sync.Mutex
		streams map[string]*stream
		notify  chan struct{}
	}
)

func NewStreams() *Streams {
	return &Streams{
		streams: make(map[string]*stream),
		notify:  make(chan struct{}),
	}
}

func newStream() *stream {
	return &stream{
		entries: btree.NewG(btreeDegree, func(left, right domain.StreamEntry) bool {
			return left.ID.Less(right.ID)
		}),
	}
}

func (streams *Streams) AddAutoIncrement(ctx context.Context, key []byte, fields []domain.Field, now time.Time) (domain.StreamID, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return domain.StreamID{}, err
	}

	streams.mutex.Lock()
	defer streams.mutex.Unlock()

	current := streams.stream(key)
	id := domain.StreamID{Ms: uint64(max(now.UnixMilli(), 0))}

	if id.Ms <= current.last.Ms {
		id = domain.StreamID{Ms: current.last.Ms, Seq: current.last.Seq + 1}
	}

	return streams.append(key, current, id, fields)
}

func (streams *Streams) Add(ctx context.Context, key []byte, spec domain.StreamIDSpec, fields []domain.Field) (domain.StreamID, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return domain.StreamID{}, err
	}

	streams.mutex.Lock()
	defer streams.mutex.Unlock()

	current := streams.stream(key)
	id := domain.StreamID{Ms: spec.Ms, Seq: spec.Seq}

	if spec.AutoSeq {
		id.Seq = nextSeq(current.last, spec.Ms)
	}

	if id.IsZero() {
		return domain.StreamID{}, errZeroID
	}

	if !current.last.Less(id) {
		return domain.StreamID{}, errTopID
	}

	return streams.append(key, current, id, fields)
}

func (streams *Streams) Range(ctx context.Context, key []byte, start, end domain.StreamID, count int) ([]domain.StreamEntry, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return nil, err
	}

	streams.mutex.Lock()
	defer streams.mutex.Unlock()

	current, found := streams.streams[string(key)]
	if !found {
		return []domain.StreamEntry{}, nil
	}

	entries := make([]domain.StreamEntry, 0)
	current.entries.AscendGreaterOrEqual(domain.StreamEntry{ID: start}, func(item domain.StreamEntry) bool {
		if end.Less(item.ID) {
			return false
		}

		entries = append(entries, item)
		return count <= 0 || len(entries) < count
	})

	return entries, nil
}

func (streams *Streams) Read(ctx context.Context, queries []domain.StreamQuery, count int) ([]domain.StreamRead, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return nil, err
	}

	streams.mutex.Lock()
	defer streams.mutex.Unlock()

	return streams.read(streams.resolve(queries), count), nil
}

func (streams *Streams) ReadBlocking(ctx context.Context, queries []domain.StreamQuery, count int, timeout time.Duration) ([]domain.StreamRead, error) {
	streams.mutex.Lock()
	resolved := streams.resolve(queries)
	streams.mutex.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		streams.mutex.Lock()
		reads := streams.read(resolved, count)
		notify := streams.notify
		streams.mutex.Unlock()

		if len(reads) > 0 {
			return reads, nil
		}

		select {
		case <-notify:
		case <-expired:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len is the number of stream keys.
func (streams *Streams) Len() int {
	streams.mutex.Lock()
	defer streams.mutex.Unlock()

	return len(streams.streams)
}

func (streams *Streams) stream(key []byte) *stream {
	current, found := streams.streams[string(key)]
	if !found {
		current = newStream()
	}

	return current
}

func (streams *Streams) append(key []byte, current *stream, id domain.StreamID, fields []domain.Field) (domain.StreamID, error) {
	current.entries.ReplaceOrInsert(domain.StreamEntry{ID: id, Fields: cloneFields(fields)})
	current.last = id
	streams.streams[string(key)] = current

	close(streams.notify)
	streams.notify = make(chan struct{})

	return id, nil
}

// resolve pins "$" cursors to the current top of each stream.
func (streams *Streams) resolve(queries []domain.StreamQuery) []domain.StreamQuery {
	resolved := make([]domain.StreamQuery, 0, len(queries))

	for _, query := range queries {
		if query.Latest {
			query.Latest = false
			query.After = domain.MinStreamID

			if current, found := streams.streams[string(query.Key)]; found {
				query.After = current.last
			}
		}

		resolved = append(resolved, query)
	}

	return resolved
}

func (streams *Streams) read(queries []domain.StreamQuery, count int) []domain.StreamRead {
	reads := make([]domain.StreamRead, 0, len(queries))

	for _, query := range queries {
		current, found := streams.streams[string(query.Key)]
		if !found {
			continue
		}

		entries := make([]domain.StreamEntry, 0)
		current.entries.AscendGreaterOrEqual(domain.StreamEntry{ID: query.After}, func(item domain.StreamEntry) bool {
			if item.ID == query.After {
				return true
			}

			entries = append(entries, item)
			return count <= 0 || len(entries) < count
		})

		if len(entries) > 0 {
			reads = append(reads, domain.StreamRead{Key: query.Key, Entries: entries})
		}
	}

	return reads
}

func nextSeq(last domain.StreamID, ms uint64) uint64 {
	if ms == last.Ms && !last.IsZero() {
		return last.Seq + 1
	}

	if ms == 0 {
		return 1
	}

	return 0
}

func cloneFields(fields []domain.Field) []domain.Field {
	cloned := make([]domain.Field, 0, len(fields))
	for _, field := range fields {
		cloned = append(cloned, domain.Field{Name: bytes.Clone(field.Name), Value: bytes.Clone(field.Value)})
	}

	return cloned
}
