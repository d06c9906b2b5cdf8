package service

import (
	"context"
	"errors"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

func hasError(err error) bool {
	return err != nil
}

func noError(err error) bool {
	return err == nil
}

func isContextCanceled(err error) bool {
	return hasError(err) && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

func isKeyNotFound(err error) bool {
	return domain.IsKeyNotFound(err)
}

func unknownSubcommand(command, subcommand string) error {
	return domain.NewMalformedError("ERR unknown subcommand '" + subcommand + "'. Try " + command + " HELP.")
}

// outputOf turns a failed step of a transaction into its error reply.
func outputOf(output domain.Output, err error) domain.Output {
	if hasError(err) {
		return domain.NewErrorReply(err)
	}

	return output
}
