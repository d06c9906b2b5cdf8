package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func (handler *Handler) xrange(ctx context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.XRange)

	entries, err := handler.streams.Range(ctx, command.Key, command.Start, command.End, command.Count)
	if hasError(err) {
		return nil, err
	}

	return domain.StreamEntriesReply{Entries: entries}, nil
}
