package service

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/replication"
)

type (
	// Attacher registers a replica once its PSYNC arrives.
	Attacher interface {
		Attach(id int64, addr string, port int) *replication.ReplicaLink
	}

	Propagator interface {
		Propagate(event domain.Event)
	}

	// HandshakeStage runs the leader side of the replication handshake.
	HandshakeStage struct {
		leader Attacher
	}

	// PropagateStage forwards successful writes to the replicas.
	PropagateStage struct {
		leader Propagator
	}

	// ReadOnlyStage rejects client writes on a follower.
	ReadOnlyStage struct{}
)

func NewHandshakeStage(leader Attacher) *HandshakeStage {
	return &HandshakeStage{leader: leader}
}

func (stage *HandshakeStage) Handle(ctx context.Context, session *Session, input domain.Input, next Next) (domain.Output, error) {
	handshake := session.Handshake()

	if session.Transaction().Active() || !handshake.Accepts(input) {
		return next(ctx, session, input)
	}

	if _, isPsync := input.(domain.Psync); !isPsync || !handshake.AwaitingPsync() {
		return handshake.Handle(input, nil)
	}

	link := stage.leader.Attach(session.ID(), session.RemoteHost(), handshake.Port())

	output, err := handshake.Handle(input, link)
	if hasError(err) {
		link.Close()
		return nil, err
	}

	session.attach(link)
	return output, nil
}

func NewPropagateStage(leader Propagator) *PropagateStage {
	return &PropagateStage{leader: leader}
}

func (stage *PropagateStage) Handle(ctx context.Context, session *Session, input domain.Input, next Next) (domain.Output, error) {
	output, err := next(ctx, session, input)

	if command, isSet := input.(domain.Set); isSet && noError(err) {
		stage.leader.Propagate(command.Event())
	}

	return output, err
}

func (ReadOnlyStage) Handle(ctx context.Context, session *Session, input domain.Input, next Next) (domain.Output, error) {
	if input.IsWrite() && !session.Replicated() {
		return nil, domain.NewReadOnlyError()
	}

	return next(ctx, session, input)
}
