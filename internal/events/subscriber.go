package events

import (
	"sync"

	"github.com/eapache/channels"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

// Subscriber is an unbounded, ordered queue of events for one consumer.
type Subscriber struct {
	channel *channels.InfiniteChannel
	mutex   sync.Mutex
	closed  bool
}

func newSubscriber() *Subscriber {
	return &Subscriber{channel: channels.NewInfiniteChannel()}
}

// Receive blocks until the next event. It reports false once the
// subscriber is closed and its backlog is drained.
func (subscriber *Subscriber) Receive() (domain.Event, bool) {
	item, ok := <-subscriber.channel.Out()
	if !ok {
		return domain.Event{}, false
	}

	return item.(domain.Event), true
}

func (subscriber *Subscriber) TryReceive() (domain.Event, bool) {
	select {
	case item, ok := <-subscriber.channel.Out():
		if !ok {
			return domain.Event{}, false
		}

		return item.(domain.Event), true
	default:
		return domain.Event{}, false
	}
}

func (subscriber *Subscriber) Close() {
	subscriber.mutex.Lock()
	defer subscriber.mutex.Unlock()

	if subscriber.closed {
		return
	}

	subscriber.closed = true
	subscriber.channel.Close()
}

func (subscriber *Subscriber) IsClosed() bool {
	subscriber.mutex.Lock()
	defer subscriber.mutex.Unlock()

	return subscriber.closed
}

func (subscriber *Subscriber) send(event domain.Event) bool {
	subscriber.mutex.Lock()
	defer subscriber.mutex.Unlock()

	if subscriber.closed {
		return false
	}

	subscriber.channel.In() <- event
	return true
}
