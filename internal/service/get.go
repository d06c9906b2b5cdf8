package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func (handler *Handler) get(ctx context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.Get)

	value, err := handler.repository.Get(ctx, command.Key, handler.now())

	if isKeyNotFound(err) {
		return domain.NullReply{}, nil
	}

	if hasError(err) {
		return nil, err
	}

	return domain.BulkReply{Data: value}, nil
}
