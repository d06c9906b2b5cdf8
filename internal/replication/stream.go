package replication

import (
	"context"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/logger"
	"github.com/luiz-simples/replikv.git/internal/transport"
)

// Stream forwards every event the replica receives as a SET on pipeline
// until the link, the connection or ctx ends. A stalled replica blocks
// only its own goroutine.
func Stream(ctx context.Context, pipeline *transport.Pipeline, replica domain.Replica) error {
	defer replica.Close()

	stop := context.AfterFunc(ctx, replica.Close)
	defer stop()

	go acknowledgements(pipeline, replica)

	for {
		event, ok := replica.Receive()
		if !ok {
			return ErrReplicaClosed
		}

		err := pipeline.Write(event.Command())

		for noError(err) {
			next, more := replica.TryReceive()
			if !more {
				break
			}

			err = pipeline.Write(next.Command())
		}

		if hasError(err) {
			return err
		}

		if err = pipeline.Flush(); hasError(err) {
			return err
		}
	}
}

// acknowledgements consumes what the replica sends back, recording ACKs.
func acknowledgements(pipeline *transport.Pipeline, replica domain.Replica) {
	defer replica.Close()

	for {
		frame, err := pipeline.Read()
		if hasError(err) {
			logger.Debug("replica link read ended", "replica", replica.Name(), "error", err)
			return
		}

		input, err := domain.ParseInput(frame.Value)
		if hasError(err) {
			logger.Warn("ignoring malformed replica message", "replica", replica.Name(), "error", err)
			continue
		}

		command, isReplConf := input.(domain.ReplConf)
		if !isReplConf {
			continue
		}

		if ack, isAck := command.Option.(domain.Ack); isAck {
			replica.Acknowledge(ack.Offset)
		}
	}
}
