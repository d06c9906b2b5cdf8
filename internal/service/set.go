package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func (handler *Handler) set(ctx context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.Set)

	previous, err := handler.repository.Set(ctx, command.Key, command.Data, command.Expiry, handler.now())
	if hasError(err) {
		return nil, err
	}

	if command.Get {
		return domain.NewBulkOrNull(previous, previous != nil), nil
	}

	return domain.OkReply{}, nil
}
