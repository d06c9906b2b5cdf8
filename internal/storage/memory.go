package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

type (
	entry struct {
		value    []byte
		deadline time.Time
	}

	// Memory keeps every key in a concurrent map and expires lazily on read.
	Memory struct {
		data *xsync.MapOf[string, entry]
	}
)

func NewMemory() *Memory {
	return &Memory{data: xsync.NewMapOf[string, entry]()}
}

func (memory *Memory) Get(ctx context.Context, key []byte, now time.Time) ([]byte, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return nil, err
	}

	current, found := memory.data.Load(string(key))
	if !found {
		return nil, domain.ErrKeyNotFound
	}

	if isExpired(current.deadline, now) {
		memory.evict(key, now)
		return nil, domain.ErrKeyNotFound
	}

	return bytes.Clone(current.value), nil
}

func (memory *Memory) Set(ctx context.Context, key, value []byte, expiry time.Duration, now time.Time) ([]byte, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return nil, err
	}

	var previous []byte
	next := entry{value: bytes.Clone(value), deadline: deadlineOf(expiry, now)}

	memory.data.Compute(string(key), func(old entry, loaded bool) (entry, bool) {
		if loaded && !isExpired(old.deadline, now) {
			previous = old.value
		}

		return next, false
	})

	return previous, nil
}

func (memory *Memory) Size(ctx context.Context) (int, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return 0, err
	}

	now := time.Now()
	size := 0

	memory.data.Range(func(_ string, current entry) bool {
		if !isExpired(current.deadline, now) {
			size++
		}

		return true
	})

	return size, nil
}

func (memory *Memory) Close() error {
	memory.data.Clear()
	return nil
}

func (memory *Memory) evict(key []byte, now time.Time) {
	memory.data.Compute(string(key), func(current entry, loaded bool) (entry, bool) {
		return current, !loaded || isExpired(current.deadline, now)
	})
}
