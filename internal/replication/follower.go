package replication

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/logger"
	"github.com/luiz-simples/replikv.git/internal/transport"
)

type (
	// Applier executes replicated commands; replies are discarded.
	Applier interface {
		Dispatch(ctx context.Context, input domain.Input) (domain.Output, error)
	}

	FollowerConfig struct {
		LeaderHost    string
		LeaderPort    int
		ListeningPort int
		ReadBuffer    int
		MaxBatch      int
		RetryInterval time.Duration
		MaxInterval   time.Duration
		BackoffCoeff  int
	}

	// Follower keeps a replication link to the leader, re-dialing on
	// connection failures.
	Follower struct {
		config  FollowerConfig
		applier Applier
		dialer  net.Dialer

		offset    atomic.Int64
		connected atomic.Bool

		mutex  sync.Mutex
		replID string
	}
)

func NewFollower(config FollowerConfig, applier Applier) *Follower {
	if config.RetryInterval <= 0 {
		config.RetryInterval = 100 * time.Millisecond
	}

	if config.MaxInterval <= 0 {
		config.MaxInterval = 5 * time.Second
	}

	if config.BackoffCoeff <= 0 {
		config.BackoffCoeff = 2
	}

	return &Follower{config: config, applier: applier}
}

func (follower *Follower) Addr() string {
	return net.JoinHostPort(follower.config.LeaderHost, strconv.Itoa(follower.config.LeaderPort))
}

// Run replicates until ctx ends or the leader breaks the handshake.
func (follower *Follower) Run(ctx context.Context) error {
	var retryer *Retryer

	retryer = NewRetryer(func(ctx context.Context) error {
		return follower.sync(ctx, retryer.Reset)
	}, follower.config.RetryInterval, follower.config.MaxInterval, follower.config.BackoffCoeff)

	for {
		err := retryer.Run(ctx)
		if hasError(ctx.Err()) {
			return nil
		}

		if hasError(err) {
			return err
		}
	}
}

func (follower *Follower) Offset() int64 {
	return follower.offset.Load()
}

func (follower *Follower) ReplID() string {
	follower.mutex.Lock()
	defer follower.mutex.Unlock()

	return follower.replID
}

func (follower *Follower) Connected() bool {
	return follower.connected.Load()
}

func (follower *Follower) Role() string {
	return "slave"
}

func (follower *Follower) Info() []domain.InfoField {
	status := "down"
	if follower.Connected() {
		status = "up"
	}

	offset := itoa(follower.Offset())

	return []domain.InfoField{
		{Name: "role", Value: follower.Role()},
		{Name: "master_host", Value: follower.config.LeaderHost},
		{Name: "master_port", Value: strconv.Itoa(follower.config.LeaderPort)},
		{Name: "master_link_status", Value: status},
		{Name: "slave_repl_offset", Value: offset},
		{Name: "master_replid", Value: follower.ReplID()},
		{Name: "master_repl_offset", Value: offset},
	}
}

// sync runs one link to the leader. established is called once the
// handshake completes.
func (follower *Follower) sync(ctx context.Context, established func()) error {
	conn, err := follower.dialer.DialContext(ctx, "tcp", follower.Addr())
	if hasError(err) {
		return retryable(err, "dial leader")
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	link := transport.NewConn(conn, follower.config.ReadBuffer, follower.config.MaxBatch)

	result, err := follower.handshake(link)
	if hasError(err) {
		return err
	}

	follower.mutex.Lock()
	follower.replID = result.ReplID
	follower.mutex.Unlock()

	follower.offset.Store(max(result.Offset, 0))
	follower.connected.Store(true)
	defer follower.connected.Store(false)
	established()

	logger.Info("replication link established", "leader", follower.Addr(), "replid", result.ReplID, "offset", result.Offset)

	return follower.replicate(ctx, transport.NewPipeline(link))
}

func (follower *Follower) handshake(link *transport.Conn) (domain.PsyncReply, error) {
	handshake := NewOutgoingHandshake(follower.config.ListeningPort)

	for request, pending := handshake.Request(); pending; request, pending = handshake.Request() {
		if _, err := link.WriteOne(request.Value()); hasError(err) {
			return domain.PsyncReply{}, retryable(err, "send "+request.Name())
		}

		frame, err := link.ReadOne()
		if hasError(err) {
			return domain.PsyncReply{}, retryable(err, "await reply to "+request.Name())
		}

		if err = handshake.HandleResponse(frame.Value); hasError(err) {
			return domain.PsyncReply{}, err
		}
	}

	snapshot, err := link.ReadRaw()
	if hasError(err) {
		return domain.PsyncReply{}, retryable(err, "read snapshot")
	}

	logger.Debug("snapshot received", "bytes", len(snapshot.Value.Bytes()))
	return handshake.Result(), nil
}

// replicate applies the leader's stream. The offset counts every frame
// processed, and a GETACK is answered with the offset before it.
func (follower *Follower) replicate(ctx context.Context, pipeline *transport.Pipeline) error {
	for {
		frame, err := pipeline.Read()
		if hasError(err) {
			return retryable(err, "read replication stream")
		}

		follower.apply(ctx, pipeline, frame)
		follower.offset.Add(int64(frame.Size))
	}
}

func (follower *Follower) apply(ctx context.Context, pipeline *transport.Pipeline, frame transport.Frame) {
	input, err := domain.ParseInput(frame.Value)
	if hasError(err) {
		logger.Warn("skipping unparsable replicated command", "error", err)
		return
	}

	if command, isReplConf := input.(domain.ReplConf); isReplConf {
		if _, isGetAck := command.Option.(domain.GetAck); isGetAck {
			ack := domain.ReplConf{Option: domain.Ack{Offset: follower.Offset()}}
			if err = pipeline.Write(ack.Value()); hasError(err) {
				logger.Warn("failed to acknowledge offset", "error", err)
			}
		}

		return
	}

	if _, err = follower.applier.Dispatch(ctx, input); hasError(err) {
		logger.Warn("failed to apply replicated command", "command", input.Name(), "error", err)
	}
}
