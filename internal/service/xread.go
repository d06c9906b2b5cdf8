package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func (handler *Handler) xread(ctx context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.XRead)

	var (
		reads []domain.StreamRead
		err   error
	)

	if command.Blocking {
		reads, err = handler.streams.ReadBlocking(ctx, command.Queries, command.Count, command.Block)
	} else {
		reads, err = handler.streams.Read(ctx, command.Queries, command.Count)
	}

	if hasError(err) {
		return nil, err
	}

	return domain.StreamReadReply{Reads: reads}, nil
}
