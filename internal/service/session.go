package service

import (
	"bytes"
	"context"
	"net"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/replication"
)

// Session is the per-connection state the stages keep between requests.
type Session struct {
	id         int64
	remote     string
	name       []byte
	replicated bool

	transaction Transaction
	handshake   *replication.IncomingHandshake
	replica     domain.Replica

	pipeline Next
}

func newSession(pipeline Next) *Session {
	return &Session{
		handshake: replication.NewIncomingHandshake(),
		pipeline:  pipeline,
	}
}

func (session *Session) Dispatch(ctx context.Context, input domain.Input) (domain.Output, error) {
	return session.pipeline(ctx, session, input)
}

// Replica is set once this connection finished a replication handshake.
func (session *Session) Replica() (domain.Replica, bool) {
	return session.replica, session.replica != nil
}

func (session *Session) Clear() {
	if session.replica != nil {
		session.replica.Close()
	}

	session.id = 0
	session.remote = ""
	session.name = nil
	session.replicated = false
	session.replica = nil
	session.transaction.reset()
	session.handshake.Reset()
}

func (session *Session) ID() int64 {
	return session.id
}

func (session *Session) RemoteHost() string {
	host, _, err := net.SplitHostPort(session.remote)
	if hasError(err) {
		return session.remote
	}

	return host
}

func (session *Session) Name() []byte {
	return session.name
}

func (session *Session) SetName(name []byte) {
	session.name = bytes.Clone(name)
}

// Replicated sessions apply the leader's stream and may write on a follower.
func (session *Session) Replicated() bool {
	return session.replicated
}

func (session *Session) Transaction() *Transaction {
	return &session.transaction
}

func (session *Session) Handshake() *replication.IncomingHandshake {
	return session.handshake
}

func (session *Session) attach(replica domain.Replica) {
	session.replica = replica
}
