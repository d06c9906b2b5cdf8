package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func client(_ context.Context, session *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.Client)
	subcommand := command.Subcommand()

	switch subcommand {
	case "ID":
		return domain.IntegerReply{Num: session.ID()}, nil

	case "GETNAME":
		name := session.Name()
		return domain.NewBulkOrNull(name, name != nil), nil

	case "SETNAME":
		if len(command.Args) != 2 {
			return nil, domain.NewArgsError("client|setname")
		}

		session.SetName(command.Args[1])
		return domain.OkReply{}, nil

	case "SETINFO":
		return domain.OkReply{}, nil
	}

	return nil, unknownSubcommand(domain.CLIENT, subcommand)
}
