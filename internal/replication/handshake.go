package replication

import (
	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/resp"
)

const (
	stepPing = iota
	stepListeningPort
	stepCapa
	stepPsync
	stepFinished
)

type (
	// PsyncSource supplies the id and offset a leader advertises on PSYNC.
	PsyncSource interface {
		ReplID() string
		Offset() int64
	}

	// IncomingHandshake tracks a replica connecting to this leader.
	IncomingHandshake struct {
		step         int
		port         int
		capabilities []string
	}

	// OutgoingHandshake drives this follower's side of the exchange.
	OutgoingHandshake struct {
		step     int
		requests []domain.Input
		result   domain.PsyncReply
	}
)

func NewIncomingHandshake() *IncomingHandshake {
	return &IncomingHandshake{}
}

// Accepts reports whether input belongs to the handshake. A bare PING only
// counts before anything else was exchanged, so ordinary clients can ping
// freely.
func (handshake *IncomingHandshake) Accepts(input domain.Input) bool {
	switch command := input.(type) {
	case domain.Ping:
		return handshake.step == stepPing && !command.HasMessage
	case domain.Psync:
		return true
	case domain.ReplConf:
		return isHandshakeOption(command.Option)
	}

	return false
}

func (handshake *IncomingHandshake) Handle(input domain.Input, source PsyncSource) (domain.Output, error) {
	switch command := input.(type) {
	case domain.Ping:
		if handshake.step == stepPing {
			handshake.step = stepListeningPort
			return domain.PongReply{}, nil
		}

	case domain.ReplConf:
		port, isPort := command.Option.(domain.ListeningPort)
		if isPort && handshake.step <= stepListeningPort {
			handshake.step = stepCapa
			handshake.port = port.Port
			return domain.OkReply{}, nil
		}

		capa, isCapa := command.Option.(domain.Capa)
		if isCapa && handshake.step == stepCapa {
			handshake.step = stepPsync
			handshake.capabilities = capa.Capabilities
			return domain.OkReply{}, nil
		}

	case domain.Psync:
		if handshake.step == stepPsync {
			handshake.step = stepFinished
			return domain.PsyncReply{ReplID: source.ReplID(), Offset: source.Offset()}, nil
		}
	}

	return nil, domain.NewHandshakeError(input.Name(), handshake.step)
}

func (handshake *IncomingHandshake) AwaitingPsync() bool {
	return handshake.step == stepPsync
}

func (handshake *IncomingHandshake) IsFinished() bool {
	return handshake.step >= stepFinished
}

func (handshake *IncomingHandshake) Step() int {
	return handshake.step
}

func (handshake *IncomingHandshake) Port() int {
	return handshake.port
}

func (handshake *IncomingHandshake) Capabilities() []string {
	return handshake.capabilities
}

func (handshake *IncomingHandshake) Reset() {
	handshake.step = stepPing
	handshake.port = 0
	handshake.capabilities = nil
}

func NewOutgoingHandshake(listeningPort int) *OutgoingHandshake {
	return &OutgoingHandshake{
		requests: []domain.Input{
			domain.Ping{},
			domain.ReplConf{Option: domain.ListeningPort{Port: listeningPort}},
			domain.ReplConf{Option: domain.Capa{Capabilities: []string{"psync2"}}},
			domain.Psync{Offset: -1},
		},
	}
}

// Request is the next message to send, or false once finished.
func (handshake *OutgoingHandshake) Request() (domain.Input, bool) {
	if handshake.IsFinished() {
		return nil, false
	}

	return handshake.requests[handshake.step], true
}

// HandleResponse checks the reply to the current request. A mismatch
// leaves the step unchanged.
func (handshake *OutgoingHandshake) HandleResponse(value resp.Value) error {
	switch handshake.step {
	case stepPing:
		if !domain.IsPong(value) {
			return unexpected(handshake.step, value)
		}

	case stepListeningPort, stepCapa:
		if !domain.IsOk(value) {
			return unexpected(handshake.step, value)
		}

	case stepPsync:
		result, err := domain.ParsePsyncReply(value)
		if hasError(err) {
			return unexpected(handshake.step, value)
		}

		handshake.result = result

	default:
		return unexpected(handshake.step, value)
	}

	handshake.step++
	return nil
}

func (handshake *OutgoingHandshake) IsFinished() bool {
	return handshake.step >= stepFinished
}

func (handshake *OutgoingHandshake) Step() int {
	return handshake.step
}

func (handshake *OutgoingHandshake) Result() domain.PsyncReply {
	return handshake.result
}

func isHandshakeOption(option domain.ReplConfOption) bool {
	switch option.(type) {
	case domain.ListeningPort, domain.Capa:
		return true
	}

	return false
}
