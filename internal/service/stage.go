package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

type (
	Next func(ctx context.Context, session *Session, input domain.Input) (domain.Output, error)

	// Stage sees every request before the stages after it. It may answer
	// on its own or delegate to next.
	Stage interface {
		Handle(ctx context.Context, session *Session, input domain.Input, next Next) (domain.Output, error)
	}
)

// Chain composes stages in order in front of terminal. It runs once at
// startup; the result is shared by every session.
func Chain(terminal Next, stages ...Stage) Next {
	chained := terminal

	for index := len(stages) - 1; index >= 0; index-- {
		stage := stages[index]
		next := chained

		chained = func(ctx context.Context, session *Session, input domain.Input) (domain.Output, error) {
			return stage.Handle(ctx, session, input, next)
		}
	}

	return chained
}
