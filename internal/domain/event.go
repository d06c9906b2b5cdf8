package domain

import (
	"bytes"
	"strconv"
	"time"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

type Event struct {
	Key    []byte
	Value  []byte
	Expiry time.Duration
}

func (event Event) Clone() Event {
	return Event{
		Key:    bytes.Clone(event.Key),
		Value:  bytes.Clone(event.Value),
		Expiry: event.Expiry,
	}
}

// Command renders the event as the SET sent down the replication link.
func (event Event) Command() resp.Value {
	if event.Expiry <= 0 {
		return resp.NewCommand(SET, event.Key, event.Value)
	}

	millis := strconv.FormatInt(event.Expiry.Milliseconds(), 10)
	return resp.NewCommand(SET, event.Key, event.Value, []byte("PX"), []byte(millis))
}
