package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

type offsetter interface {
	Offset() int64
}

// replconf answers what reaches the keyspace outside a handshake.
func (handler *Handler) replconf(_ context.Context, session *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.ReplConf)

	switch option := command.Option.(type) {
	case domain.GetAck:
		offset := int64(0)
		if source, ok := handler.state.(offsetter); ok {
			offset = source.Offset()
		}

		return domain.ReplConf{Option: domain.Ack{Offset: offset}}, nil

	case domain.Ack:
		if replica, attached := session.Replica(); attached {
			replica.Acknowledge(option.Offset)
		}
	}

	return domain.OkReply{}, nil
}

func psync(_ context.Context, _ *Session, _ domain.Input) (domain.Output, error) {
	return nil, &domain.CommandError{
		Reply: "ERR PSYNC is only served by a leader",
		Cause: domain.ErrReadOnly,
	}
}
