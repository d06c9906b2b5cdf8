package app

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	pkgerrors "github.com/pkg/errors"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/events"
	"github.com/luiz-simples/replikv.git/internal/logger"
	"github.com/luiz-simples/replikv.git/internal/replication"
	"github.com/luiz-simples/replikv.git/internal/service"
	"github.com/luiz-simples/replikv.git/internal/storage"
)

const (
	StorageMemory = "memory"
	StorageLMDB   = "lmdb"
)

var ErrUnknownStorage = errors.New("unknown storage backend")

type (
	Options struct {
		Host        string
		Port        int
		ReplicaOf   string
		Storage     string
		DataDir     string
		ReadBuffer  int
		MaxBatch    int
		MetricsAddr string
		Settings    service.Settings
	}

	// Node is one running instance: a leader, or a follower of ReplicaOf.
	Node struct {
		Server   *Server
		Leader   *replication.Leader
		Follower *replication.Follower

		repository domain.Repository
		stats      *service.Stats
		metrics    *MetricsServer
	}
)

// Bootstrap wires storage, the request pipeline and the replication role,
// and binds the listener.
func Bootstrap(options Options) (*Node, error) {
	repository, err := openRepository(options)
	if hasError(err) {
		return nil, err
	}

	set := vmetrics.NewSet()
	node := &Node{repository: repository, stats: service.NewStats(set)}

	handlerOptions := service.Options{
		Repository: repository,
		Streams:    storage.NewStreams(),
		Settings:   options.Settings,
		Stats:      node.stats,
	}

	var pool *service.Pool

	if options.ReplicaOf == "" {
		node.Leader = replication.NewLeader(events.NewProducer())
		handlerOptions.State = node.Leader

		set.NewGauge("replikv_replicas", func() float64 {
			return float64(node.Leader.Replicas())
		})
		set.NewGauge("replikv_master_repl_offset", func() float64 {
			return float64(node.Leader.Offset())
		})

		pool = service.NewPool(service.NewHandler(handlerOptions),
			service.NewHandshakeStage(node.Leader),
			service.TransactionStage{},
			service.NewPropagateStage(node.Leader),
		)
	}

	server := NewServer(nil, node.stats, set)
	node.Server = server

	err = server.Listen(Config{
		Address:    net.JoinHostPort(options.Host, strconv.Itoa(options.Port)),
		ReadBuffer: options.ReadBuffer,
		MaxBatch:   options.MaxBatch,
	})
	if hasError(err) {
		node.Close()
		return nil, err
	}

	if options.ReplicaOf != "" {
		pool, err = node.follow(options, handlerOptions, set)
		if hasError(err) {
			node.Close()
			return nil, err
		}
	}

	server.pool = pool

	if options.MetricsAddr != "" {
		node.metrics, err = NewMetricsServer(options.MetricsAddr, set)
		if hasError(err) {
			node.Close()
			return nil, err
		}
	}

	return node, nil
}

// Run serves clients, and follows the leader when configured, until ctx
// ends or the listener fails.
func (node *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if node.metrics != nil {
		go node.metrics.Serve()
	}

	if node.Follower != nil {
		go node.runFollower(ctx)
	}

	stop := context.AfterFunc(ctx, node.Server.Close)
	defer stop()

	err := node.Server.Serve()
	if errors.Is(err, ErrServerClosed) {
		return nil
	}

	return err
}

func (node *Node) Addr() net.Addr {
	return node.Server.Addr()
}

// MetricsAddr is nil unless a metrics endpoint was configured.
func (node *Node) MetricsAddr() net.Addr {
	if node.metrics == nil {
		return nil
	}

	return node.metrics.Addr()
}

func (node *Node) Close() {
	if node.Server != nil {
		node.Server.Close()
	}

	if node.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := node.metrics.Close(ctx); hasError(err) {
			logger.Warn("metrics endpoint shutdown", "error", err)
		}
		cancel()
	}

	if node.Leader != nil {
		node.Leader.Close()
	}

	node.stats.Stop()

	if err := node.repository.Close(); hasError(err) {
		logger.Warn("repository close", "error", err)
	}
}

func (node *Node) follow(options Options, handlerOptions service.Options, set *vmetrics.Set) (*service.Pool, error) {
	host, port, err := ParseReplicaOf(options.ReplicaOf)
	if hasError(err) {
		return nil, err
	}

	listening := options.Port
	if addr, ok := node.Server.Addr().(*net.TCPAddr); ok {
		listening = addr.Port
	}

	apply := &applier{}

	node.Follower = replication.NewFollower(replication.FollowerConfig{
		LeaderHost:    host,
		LeaderPort:    port,
		ListeningPort: listening,
		ReadBuffer:    options.ReadBuffer,
		MaxBatch:      options.MaxBatch,
	}, apply)

	handlerOptions.State = node.Follower
	apply.pool = service.NewPool(service.NewHandler(handlerOptions),
		service.ReadOnlyStage{},
		service.TransactionStage{},
	)

	set.NewGauge("replikv_slave_repl_offset", func() float64 {
		return float64(node.Follower.Offset())
	})

	return apply.pool, nil
}

func (node *Node) runFollower(ctx context.Context) {
	err := node.Follower.Run(ctx)
	if hasError(err) {
		logger.Error("replication stopped", "leader", node.Follower.Addr(), "error", err)
	}
}

// applier runs the leader's stream through a replicated session.
type applier struct {
	pool *service.Pool
}

func (applier *applier) Dispatch(ctx context.Context, input domain.Input) (domain.Output, error) {
	session := applier.pool.Replicated(ctx)
	defer applier.pool.Free(session)

	return session.Dispatch(ctx, input)
}

func openRepository(options Options) (domain.Repository, error) {
	switch options.Storage {
	case "", StorageMemory:
		return storage.NewMemory(), nil

	case StorageLMDB:
		repository, err := storage.NewLMDB(options.DataDir)
		if hasError(err) {
			return nil, pkgerrors.WithMessage(err, "open lmdb")
		}

		return repository, nil
	}

	return nil, pkgerrors.Wrapf(ErrUnknownStorage, "%q", options.Storage)
}
