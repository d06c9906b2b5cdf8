package domain

import (
	"context"
	"time"
)

type (
	Args = [][]byte

	Field struct {
		Name  []byte
		Value []byte
	}

	InfoField struct {
		Name  string
		Value string
	}

	Repository interface {
		Get(ctx context.Context, key []byte, now time.Time) ([]byte, error)
		// Set returns the previous live value, or nil when the key was absent.
		Set(ctx context.Context, key, value []byte, expiry time.Duration, now time.Time) ([]byte, error)
		Size(ctx context.Context) (int, error)
		Close() error
	}

	StreamStore interface {
		AddAutoIncrement(ctx context.Context, key []byte, fields []Field, now time.Time) (StreamID, error)
		Add(ctx context.Context, key []byte, id StreamIDSpec, fields []Field) (StreamID, error)
		Read(ctx context.Context, queries []StreamQuery, count int) ([]StreamRead, error)
		// ReadBlocking waits up to timeout (zero waits forever) and returns nil
		// when nothing arrived.
		ReadBlocking(ctx context.Context, queries []StreamQuery, count int, timeout time.Duration) ([]StreamRead, error)
		Range(ctx context.Context, key []byte, start, end StreamID, count int) ([]StreamEntry, error)
	}

	Subscription interface {
		Receive() (Event, bool)
		TryReceive() (Event, bool)
		Close()
	}

	Replica interface {
		Subscription
		Name() string
		Snapshot() []byte
		Acknowledge(offset int64)
	}

	Dispatcher interface {
		Dispatch(ctx context.Context, input Input) (Output, error)
		Replica() (Replica, bool)
		Clear()
	}

	Logicaler interface {
		Get(ctx context.Context) Dispatcher
		Free(dispatcher Dispatcher)
	}

	ReplicationState interface {
		Role() string
		Info() []InfoField
	}

	Validation struct {
		MinArgs int
		MaxArgs int
	}

	CTX string
)

const (
	ID     = CTX("ID")
	Remote = CTX("REMOTE")
)

func ConnectionID(ctx context.Context) int64 {
	id, _ := ctx.Value(ID).(int64)
	return id
}

func RemoteAddr(ctx context.Context) string {
	addr, _ := ctx.Value(Remote).(string)
	return addr
}
