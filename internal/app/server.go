package app

import (
	"context"
	"errors"
	"net"
	"sync"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/bwmarrin/snowflake"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/logger"
	"github.com/luiz-simples/replikv.git/internal/replication"
	"github.com/luiz-simples/replikv.git/internal/resp"
	"github.com/luiz-simples/replikv.git/internal/transport"
)

//go:generate mockgen -destination=mocks_test.go -package=app_test github.com/luiz-simples/replikv.git/internal/domain Logicaler,Dispatcher

type (
	// Tracker is told about every connection the server opens and closes.
	Tracker interface {
		Connected()
		Disconnected()
	}

	Server struct {
		pool    domain.Logicaler
		tracker Tracker
		metrics *vmetrics.Set
		node    *snowflake.Node

		config   Config
		listener net.Listener
		ctx      context.Context
		cancel   context.CancelFunc

		mutex  sync.Mutex
		conns  map[int64]net.Conn
		closed bool
		wg     sync.WaitGroup
	}

	Config struct {
		Address    string
		ReadBuffer int
		MaxBatch   int
	}
)

var ErrServerClosed = errors.New("server closed")

func NewServer(pool domain.Logicaler, tracker Tracker, metrics *vmetrics.Set) *Server {
	node, _ := snowflake.NewNode(1)
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		pool:    pool,
		tracker: tracker,
		metrics: metrics,
		node:    node,
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[int64]net.Conn),
	}
}

// Start binds config.Address and serves until Close.
func (server *Server) Start(config Config) error {
	if err := server.Listen(config); hasError(err) {
		return err
	}

	return server.Serve()
}

func (server *Server) Listen(config Config) error {
	listener, err := net.Listen("tcp", config.Address)
	if hasError(err) {
		return err
	}

	server.config = config
	server.listener = listener
	logger.Info("listening", "addr", listener.Addr().String())

	return nil
}

func (server *Server) Addr() net.Addr {
	return server.listener.Addr()
}

// Serve accepts connections and runs each on its own goroutine.
func (server *Server) Serve() error {
	for {
		conn, err := server.listener.Accept()
		if hasError(err) {
			if server.isClosed() {
				return ErrServerClosed
			}

			return err
		}

		id, accepted := server.accept(conn)
		if !accepted {
			_ = conn.Close()
			return ErrServerClosed
		}

		go server.handle(id, conn)
	}
}

func (server *Server) Close() {
	server.mutex.Lock()
	if server.closed {
		server.mutex.Unlock()
		return
	}

	server.closed = true
	server.cancel()

	if server.listener != nil {
		_ = server.listener.Close()
	}

	for _, conn := range server.conns {
		_ = conn.Close()
	}
	server.mutex.Unlock()

	server.wg.Wait()
}

func (server *Server) accept(conn net.Conn) (int64, bool) {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	if server.closed {
		return 0, false
	}

	id := server.node.Generate().Int64()
	server.conns[id] = conn
	server.wg.Add(1)

	if server.tracker != nil {
		server.tracker.Connected()
	}

	if server.metrics != nil {
		server.metrics.GetOrCreateCounter("replikv_connections_total").Inc()
	}

	return id, true
}

func (server *Server) release(id int64, conn net.Conn) {
	server.mutex.Lock()
	delete(server.conns, id)
	server.mutex.Unlock()

	_ = conn.Close()

	if server.tracker != nil {
		server.tracker.Disconnected()
	}

	server.wg.Done()
}

func (server *Server) handle(id int64, conn net.Conn) {
	defer server.release(id, conn)

	ctx := context.WithValue(server.ctx, domain.ID, id)
	ctx = context.WithValue(ctx, domain.Remote, conn.RemoteAddr().String())

	dispatcher := server.pool.Get(ctx)
	defer server.pool.Free(dispatcher)

	pipeline := transport.NewPipeline(transport.NewConn(conn, server.config.ReadBuffer, server.config.MaxBatch))

	log := logger.With("conn", id, "addr", conn.RemoteAddr().String())
	log.Debug("client connected")

	err := server.serve(ctx, pipeline, dispatcher)
	if isDisconnect(err) || server.isClosed() {
		log.Debug("client disconnected")
		return
	}

	log.Warn("closing connection", "error", err)
}

// serve answers requests in wire order. A finished handshake hands the
// connection over to the replication stream.
func (server *Server) serve(ctx context.Context, pipeline *transport.Pipeline, dispatcher domain.Dispatcher) error {
	for {
		frame, err := pipeline.Read()
		if resp.IsProtocolError(err) || transport.IsBufferFull(err) {
			reject(pipeline, err)
			return err
		}

		if hasError(err) {
			return err
		}

		input, err := domain.ParseInput(frame.Value)
		if hasError(err) {
			if err = pipeline.Write(domain.NewErrorReply(err).Value()); hasError(err) {
				return err
			}

			continue
		}

		output, err := dispatcher.Dispatch(ctx, input)
		if isFatal(err) {
			reject(pipeline, err)
			return err
		}

		if hasError(err) {
			output = domain.NewErrorReply(err)
		}

		if err = pipeline.Write(output.Value()); hasError(err) {
			return err
		}

		if replica, attached := dispatcher.Replica(); attached {
			return server.replicate(ctx, pipeline, replica)
		}
	}
}

// replicate sends the snapshot that follows FULLRESYNC and then streams
// writes to the replica.
func (server *Server) replicate(ctx context.Context, pipeline *transport.Pipeline, replica domain.Replica) error {
	if err := pipeline.Write(resp.NewRaw(replica.Snapshot())); hasError(err) {
		return err
	}

	if err := pipeline.Flush(); hasError(err) {
		return err
	}

	logger.Info("streaming to replica", "replica", replica.Name())

	err := replication.Stream(ctx, pipeline, replica)
	if errors.Is(err, replication.ErrReplicaClosed) {
		return nil
	}

	return err
}

func (server *Server) isClosed() bool {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	return server.closed
}

func reject(pipeline *transport.Pipeline, err error) {
	if werr := pipeline.Write(domain.NewErrorReply(err).Value()); hasError(werr) {
		return
	}

	_ = pipeline.Flush()
}
