package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func ping(_ context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.Ping)

	if command.HasMessage {
		return domain.BulkReply{Data: command.Message}, nil
	}

	return domain.PongReply{}, nil
}

func echo(_ context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	return domain.BulkReply{Data: input.(domain.Echo).Message}, nil
}
