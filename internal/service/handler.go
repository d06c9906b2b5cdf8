package service

import (
	"context"
	"time"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/router"
)

//go:generate mockgen -destination=mocks_test.go -package=service_test github.com/luiz-simples/replikv.git/internal/domain Repository,StreamStore,ReplicationState

type (
	Command func(ctx context.Context, session *Session, input domain.Input) (domain.Output, error)

	Options struct {
		Repository domain.Repository
		Streams    domain.StreamStore
		State      domain.ReplicationState
		Settings   Settings
		Stats      *Stats
		Clock      func() time.Time
	}

	// Handler is the terminal stage: it routes each command by name.
	Handler struct {
		repository domain.Repository
		streams    domain.StreamStore
		state      domain.ReplicationState
		settings   Settings
		stats      *Stats
		clock      func() time.Time

		commands *router.Router[Command]
	}
)

func NewHandler(options Options) *Handler {
	handler := &Handler{
		repository: options.Repository,
		streams:    options.Streams,
		state:      options.State,
		settings:   options.Settings,
		stats:      options.Stats,
		clock:      options.Clock,
		commands:   router.New[Command](),
	}

	if handler.clock == nil {
		handler.clock = time.Now
	}

	if handler.stats == nil {
		handler.stats = NewStats(nil)
	}

	commands := map[string]Command{
		domain.PING:     ping,
		domain.ECHO:     echo,
		domain.GET:      handler.get,
		domain.SET:      handler.set,
		domain.REPLCONF: handler.replconf,
		domain.PSYNC:    psync,
		domain.XADD:     handler.xadd,
		domain.XRANGE:   handler.xrange,
		domain.XREAD:    handler.xread,
		domain.CLIENT:   client,
		domain.CONFIG:   handler.config,
		domain.INFO:     handler.info,
	}

	for name, command := range commands {
		_ = handler.commands.Register(name, command)
	}

	return handler
}

// Dispatch runs input against the keyspace.
func (handler *Handler) Dispatch(ctx context.Context, session *Session, input domain.Input) (domain.Output, error) {
	handler.stats.Mark(input.Name())

	command, found := handler.commands.Route([]byte(input.Name()))
	if !found {
		return nil, domain.NewUnknownCommandError(input.Name())
	}

	output, err := command(ctx, session, input)

	if isContextCanceled(err) {
		return nil, domain.ErrCanceled
	}

	if hasError(err) {
		handler.stats.Fail(input.Name())
	}

	return output, err
}

func (handler *Handler) Stats() *Stats {
	return handler.stats
}

func (handler *Handler) now() time.Time {
	return handler.clock()
}
