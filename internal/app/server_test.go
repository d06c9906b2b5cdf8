package app_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"

	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luiz-simples/replikv.git/internal/app"
	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/service"
	"github.com/luiz-simples/replikv.git/internal/storage"
)

type countingTracker struct {
	connected    chan struct{}
	disconnected chan struct{}
}

func newCountingTracker() *countingTracker {
	return &countingTracker{
		connected:    make(chan struct{}, 16),
		disconnected: make(chan struct{}, 16),
	}
}

func (tracker *countingTracker) Connected() {
	tracker.connected <- struct{}{}
}

func (tracker *countingTracker) Disconnected() {
	tracker.disconnected <- struct{}{}
}

func startServer(pool domain.Logicaler, tracker app.Tracker) *app.Server {
	return startServerWith(pool, tracker, app.Config{Address: "127.0.0.1:0"})
}

func startServerWith(pool domain.Logicaler, tracker app.Tracker, config app.Config) *app.Server {
	server := app.NewServer(pool, tracker, nil)
	Expect(server.Listen(config)).To(Succeed())

	go func() {
		defer GinkgoRecover()
		Expect(server.Serve()).To(MatchError(app.ErrServerClosed))
	}()

	return server
}

func dial(server *app.Server) (net.Conn, *bufio.Reader) {
	conn, err := net.Dial("tcp", server.Addr().String())
	Expect(err).NotTo(HaveOccurred())
	Expect(conn.SetDeadline(time.Now().Add(5 * time.Second))).To(Succeed())

	return conn, bufio.NewReader(conn)
}

func readExactly(reader *bufio.Reader, expected string) string {
	buf := make([]byte, len(expected))
	_, err := io.ReadFull(reader, buf)
	Expect(err).NotTo(HaveOccurred())

	return string(buf)
}

var _ = Describe("Server", func() {
	var (
		server  *app.Server
		tracker *countingTracker
	)

	Context("with the command pipeline", func() {
		BeforeEach(func() {
			tracker = newCountingTracker()
			handler := service.NewHandler(service.Options{Repository: storage.NewMemory(), Streams: storage.NewStreams()})
			server = startServer(service.NewPool(handler, service.TransactionStage{}), tracker)
		})

		AfterEach(func() {
			server.Close()
		})

		It("answers pipelined requests in order", func() {
			conn, reader := dial(server)
			defer conn.Close()

			_, err := conn.Write([]byte("*1\r\n$4\r\nPING\r\n*2\r\n$4\r\nECHO\r\n$2\r\nhi\r\n*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"))
			Expect(err).NotTo(HaveOccurred())

			expected := "+PONG\r\n$2\r\nhi\r\n+OK\r\n$1\r\nv\r\n"
			Expect(readExactly(reader, expected)).To(Equal(expected))
		})

		It("replies to bad commands and keeps the connection", func() {
			conn, reader := dial(server)
			defer conn.Close()

			_, err := conn.Write([]byte("*1\r\n$3\r\nFOO\r\n*1\r\n$3\r\nGET\r\n*1\r\n$4\r\nPING\r\n"))
			Expect(err).NotTo(HaveOccurred())

			expected := "-ERR unknown command 'FOO'\r\n-ERR wrong number of arguments for 'get' command\r\n+PONG\r\n"
			Expect(readExactly(reader, expected)).To(Equal(expected))
		})

		It("accepts inline PING", func() {
			conn, reader := dial(server)
			defer conn.Close()

			_, err := conn.Write([]byte("+PING\r\n"))
			Expect(err).NotTo(HaveOccurred())

			Expect(readExactly(reader, "+PONG\r\n")).To(Equal("+PONG\r\n"))
		})

		It("closes the connection on a protocol error", func() {
			conn, reader := dial(server)
			defer conn.Close()

			_, err := conn.Write([]byte("?garbage\r\n"))
			Expect(err).NotTo(HaveOccurred())

			line, err := reader.ReadString('\n')
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(HavePrefix("-ERR"))

			_, err = reader.ReadByte()
			Expect(err).To(MatchError(io.EOF))
		})

		It("tracks connections", func() {
			conn, _ := dial(server)
			Eventually(tracker.connected).Should(Receive())

			Expect(conn.Close()).To(Succeed())
			Eventually(tracker.disconnected).Should(Receive())
		})

		It("drops open connections on Close", func() {
			conn, reader := dial(server)
			defer conn.Close()
			Eventually(tracker.connected).Should(Receive())

			server.Close()

			_, err := reader.ReadByte()
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a small read buffer", func() {
		BeforeEach(func() {
			handler := service.NewHandler(service.Options{Repository: storage.NewMemory(), Streams: storage.NewStreams()})
			server = startServerWith(service.NewPool(handler), nil, app.Config{Address: "127.0.0.1:0", ReadBuffer: 32})
		})

		AfterEach(func() {
			server.Close()
		})

		It("answers requests that fit", func() {
			conn, reader := dial(server)
			defer conn.Close()

			_, err := conn.Write([]byte("*2\r\n$4\r\nECHO\r\n$2\r\nhi\r\n"))
			Expect(err).NotTo(HaveOccurred())

			Expect(readExactly(reader, "$2\r\nhi\r\n")).To(Equal("$2\r\nhi\r\n"))
		})

		It("replies with an error before dropping a request that does not fit", func() {
			conn, reader := dial(server)
			defer conn.Close()

			request := "*2\r\n$4\r\nECHO\r\n$100\r\n" + strings.Repeat("a", 12)
			Expect(request).To(HaveLen(32))

			_, err := conn.Write([]byte(request))
			Expect(err).NotTo(HaveOccurred())

			expected := "-ERR request does not fit the read buffer\r\n"
			Expect(readExactly(reader, expected)).To(Equal(expected))

			_, err = reader.ReadByte()
			Expect(err).To(MatchError(io.EOF))
		})
	})

	Context("with a mocked pool", func() {
		var (
			ctrl       *gomock.Controller
			pool       *MockLogicaler
			dispatcher *MockDispatcher
		)

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			pool = NewMockLogicaler(ctrl)
			dispatcher = NewMockDispatcher(ctrl)
			server = startServer(pool, nil)
		})

		AfterEach(func() {
			server.Close()
			ctrl.Finish()
		})

		It("hands each connection its own dispatcher with id and address", func() {
			freed := make(chan struct{})
			contexts := make(chan context.Context, 1)

			pool.EXPECT().Get(gomock.Any()).DoAndReturn(func(ctx context.Context) domain.Dispatcher {
				contexts <- ctx
				return dispatcher
			})
			dispatcher.EXPECT().Dispatch(gomock.Any(), domain.Ping{}).Return(domain.PongReply{}, nil)
			dispatcher.EXPECT().Replica().Return(nil, false)
			pool.EXPECT().Free(dispatcher).Do(func(any) { close(freed) })

			conn, reader := dial(server)
			_, err := conn.Write([]byte("*1\r\n$4\r\nPING\r\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(readExactly(reader, "+PONG\r\n")).To(Equal("+PONG\r\n"))

			var ctx context.Context
			Eventually(contexts).Should(Receive(&ctx))
			Expect(domain.ConnectionID(ctx)).NotTo(BeZero())
			Expect(domain.RemoteAddr(ctx)).To(Equal(conn.LocalAddr().String()))

			Expect(conn.Close()).To(Succeed())
			Eventually(freed).Should(BeClosed())
		})

		It("closes the connection when the handshake goes wrong", func() {
			freed := make(chan struct{})

			pool.EXPECT().Get(gomock.Any()).Return(dispatcher)
			dispatcher.EXPECT().Dispatch(gomock.Any(), domain.Psync{Offset: -1}).
				Return(nil, domain.NewHandshakeError(domain.PSYNC, 0))
			pool.EXPECT().Free(dispatcher).Do(func(any) { close(freed) })

			conn, reader := dial(server)
			defer conn.Close()

			_, err := conn.Write([]byte("*3\r\n$5\r\nPSYNC\r\n$1\r\n?\r\n$2\r\n-1\r\n"))
			Expect(err).NotTo(HaveOccurred())

			expected := "-ERR unexpected PSYNC at replication handshake step 0\r\n"
			Expect(readExactly(reader, expected)).To(Equal(expected))

			_, err = reader.ReadByte()
			Expect(err).To(MatchError(io.EOF))
			Eventually(freed).Should(BeClosed())
		})
	})
})
