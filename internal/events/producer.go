package events

import (
	"sync"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/logger"
)

// Producer fans every emitted event out to the subscribers registered at
// the time of the emit. There is no backlog for late subscribers.
type Producer struct {
	mutex       sync.Mutex
	subscribers []*Subscriber
}

func NewProducer() *Producer {
	return &Producer{}
}

func (producer *Producer) Subscribe() *Subscriber {
	subscriber := newSubscriber()

	producer.mutex.Lock()
	producer.subscribers = append(producer.subscribers, subscriber)
	producer.mutex.Unlock()

	return subscriber
}

// Emit never fails; closed subscribers are dropped from the registry.
func (producer *Producer) Emit(event domain.Event) {
	producer.mutex.Lock()
	defer producer.mutex.Unlock()

	live := producer.subscribers[:0]

	for _, subscriber := range producer.subscribers {
		if subscriber.send(event.Clone()) {
			live = append(live, subscriber)
			continue
		}

		logger.Debug("dropping closed subscriber")
	}

	clear(producer.subscribers[len(live):])
	producer.subscribers = live
}

func (producer *Producer) Len() int {
	producer.mutex.Lock()
	defer producer.mutex.Unlock()

	return len(producer.subscribers)
}

func (producer *Producer) Close() {
	producer.mutex.Lock()
	defer producer.mutex.Unlock()

	for _, subscriber := range producer.subscribers {
		subscriber.Close()
	}

	producer.subscribers = nil
}
