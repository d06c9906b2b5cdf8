package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func (handler *Handler) xadd(ctx context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.XAdd)

	var (
		id  domain.StreamID
		err error
	)

	if command.Auto {
		id, err = handler.streams.AddAutoIncrement(ctx, command.Key, command.Fields, handler.now())
	} else {
		id, err = handler.streams.Add(ctx, command.Key, command.ID, command.Fields)
	}

	if hasError(err) {
		return nil, err
	}

	return domain.BulkReply{Data: []byte(id.String())}, nil
}
