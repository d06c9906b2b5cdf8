package service

import (
	"context"
	"sync"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

type (
	Pool struct {
		refs *sync.Pool
	}
)

// NewPool builds the request pipeline once and hands out sessions running it.
func NewPool(handler *Handler, stages ...Stage) *Pool {
	pipeline := Chain(handler.Dispatch, stages...)

	return &Pool{
		refs: &sync.Pool{
			New: func() any {
				return newSession(pipeline)
			},
		},
	}
}

func (pool *Pool) Get(ctx context.Context) domain.Dispatcher {
	return pool.session(ctx)
}

// Replicated returns a session for applying the leader's stream.
func (pool *Pool) Replicated(ctx context.Context) *Session {
	session := pool.session(ctx)
	session.replicated = true
	return session
}

func (pool *Pool) Free(dispatcher domain.Dispatcher) {
	session, ok := dispatcher.(*Session)
	if !ok {
		return
	}

	session.Clear()
	pool.refs.Put(session)
}

func (pool *Pool) session(ctx context.Context) *Session {
	session, _ := pool.refs.Get().(*Session)
	session.id = domain.ConnectionID(ctx)
	session.remote = domain.RemoteAddr(ctx)
	return session
}
