package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

type (
	// Transaction is a connection's MULTI queue.
	Transaction struct {
		active bool
		queue  []domain.Input
	}

	TransactionStage struct{}
)

func (transaction *Transaction) Begin() error {
	if transaction.active {
		return domain.NewNestedMultiError()
	}

	transaction.active = true
	return nil
}

func (transaction *Transaction) Queue(input domain.Input) {
	transaction.queue = append(transaction.queue, input)
}

// Commit hands back the queued commands in submission order.
func (transaction *Transaction) Commit() ([]domain.Input, error) {
	if !transaction.active {
		return nil, domain.NewInvalidStoreError("ERR EXEC without MULTI")
	}

	queued := transaction.queue
	transaction.reset()

	return queued, nil
}

func (transaction *Transaction) Discard() error {
	if !transaction.active {
		return domain.NewInvalidStoreError("ERR DISCARD without MULTI")
	}

	transaction.reset()
	return nil
}

func (transaction *Transaction) Active() bool {
	return transaction.active
}

func (transaction *Transaction) Len() int {
	return len(transaction.queue)
}

func (transaction *Transaction) reset() {
	transaction.active = false
	transaction.queue = nil
}

// Handle queues everything between MULTI and EXEC. Nothing queued reaches
// the stages after this one until EXEC replays it.
func (TransactionStage) Handle(ctx context.Context, session *Session, input domain.Input, next Next) (domain.Output, error) {
	transaction := session.Transaction()

	switch input.(type) {
	case domain.Multi:
		if err := transaction.Begin(); hasError(err) {
			return nil, err
		}

		return domain.OkReply{}, nil

	case domain.CommitMulti:
		queued, err := transaction.Commit()
		if hasError(err) {
			return nil, err
		}

		outputs := make([]domain.Output, 0, len(queued))
		for _, command := range queued {
			outputs = append(outputs, outputOf(next(ctx, session, command)))
		}

		return domain.ArrayReply{Items: outputs}, nil

	case domain.Discard:
		if err := transaction.Discard(); hasError(err) {
			return nil, err
		}

		return domain.OkReply{}, nil
	}

	if transaction.Active() {
		transaction.Queue(input)
		return domain.QueuedReply{}, nil
	}

	return next(ctx, session, input)
}
