package replication_test

import (
	"context"
	"net"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/events"
	"github.com/luiz-simples/replikv.git/internal/replication"
	"github.com/luiz-simples/replikv.git/internal/resp"
	"github.com/luiz-simples/replikv.git/internal/transport"
)

func setEvent(key, value string) domain.Event {
	return domain.Event{Key: []byte(key), Value: []byte(value)}
}

var _ = Describe("Leader", func() {
	var leader *replication.Leader

	BeforeEach(func() {
		leader = replication.NewLeader(events.NewProducer())
	})

	AfterEach(func() {
		leader.Close()
	})

	It("has a 40 character replication id and starts at offset zero", func() {
		Expect(leader.ReplID()).To(MatchRegexp("^[0-9a-f]{40}$"))
		Expect(leader.Offset()).To(BeZero())
	})

	It("advances the offset by each propagated frame", func() {
		event := setEvent("foo", "bar")
		frame := resp.Serialize(event.Command())

		leader.Propagate(event)
		leader.Propagate(event)

		Expect(leader.Offset()).To(Equal(int64(2 * len(frame))))
	})

	It("advertises the offset at attach time and delivers later writes", func() {
		leader.Propagate(setEvent("before", "1"))
		link := leader.Attach(1, "127.0.0.1", 6380)
		leader.Propagate(setEvent("after", "2"))

		Expect(link.ReplID()).To(Equal(leader.ReplID()))
		Expect(link.Offset()).To(Equal(int64(len(resp.Serialize(setEvent("before", "1").Command())))))

		event, ok := link.Receive()
		Expect(ok).To(BeTrue())
		Expect(event.Key).To(Equal([]byte("after")))
	})

	It("reports attached replicas and forgets closed ones", func() {
		link := leader.Attach(7, "10.0.0.2", 6381)
		link.Acknowledge(14)

		Expect(leader.Replicas()).To(Equal(1))
		Expect(leader.Info()).To(ContainElements(
			domain.InfoField{Name: "role", Value: "master"},
			domain.InfoField{Name: "connected_slaves", Value: "1"},
			domain.InfoField{Name: "slave0", Value: "ip=10.0.0.2,port=6381,state=online,offset=14,lag=0"},
		))

		link.Close()
		link.Close()

		Expect(leader.Replicas()).To(BeZero())
	})

	It("ships an RDB snapshot", func() {
		Expect(replication.EmptySnapshot()).To(HavePrefix("REDIS0011"))
	})
})

var _ = Describe("Stream", func() {
	It("writes propagated SETs and records acknowledgements", func() {
		leader := replication.NewLeader(events.NewProducer())
		defer leader.Close()

		server, client := net.Pipe()
		defer client.Close()

		link := leader.Attach(1, "127.0.0.1", 6380)
		pipeline := transport.NewPipeline(transport.NewConn(server, 1024, transport.Unbounded))
		done := make(chan error, 1)

		go func() {
			done <- replication.Stream(context.Background(), pipeline, link)
		}()

		leader.Propagate(setEvent("a", "1"))
		leader.Propagate(domain.Event{Key: []byte("b"), Value: []byte("2"), Expiry: time.Second})

		replica := transport.NewConn(client, 1024, transport.Unbounded)

		first, err := replica.ReadOne()
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Value).To(Equal(resp.NewCommand("SET", []byte("a"), []byte("1"))))

		second, err := replica.ReadOne()
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Value).To(Equal(resp.NewCommand("SET", []byte("b"), []byte("2"), []byte("PX"), []byte("1000"))))

		ack := domain.ReplConf{Option: domain.Ack{Offset: int64(first.Size + second.Size)}}
		_, err = replica.WriteOne(ack.Value())
		Expect(err).NotTo(HaveOccurred())

		Eventually(link.Acked).Should(Equal(leader.Offset()))

		Expect(client.Close()).To(Succeed())
		leader.Propagate(setEvent("c", "3"))

		Eventually(done).Should(Receive())
		Eventually(leader.Replicas).Should(BeZero())
	})

	It("keeps a stalled replica from holding back the others", func() {
		leader := replication.NewLeader(events.NewProducer())
		defer leader.Close()

		stalledServer, stalledClient := net.Pipe()
		defer stalledClient.Close()
		defer stalledServer.Close()

		liveServer, liveClient := net.Pipe()
		defer liveClient.Close()
		defer liveServer.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		stalled := leader.Attach(1, "127.0.0.1", 6380)
		live := leader.Attach(2, "127.0.0.1", 6381)

		go func() {
			_ = replication.Stream(ctx, transport.NewPipeline(transport.NewConn(stalledServer, 1024, transport.Unbounded)), stalled)
		}()
		go func() {
			_ = replication.Stream(ctx, transport.NewPipeline(transport.NewConn(liveServer, 1024, transport.Unbounded)), live)
		}()

		const writes = 200
		propagated := make(chan struct{})

		go func() {
			defer close(propagated)
			for index := range writes {
				leader.Propagate(setEvent("k", strconv.Itoa(index)))
			}
		}()

		Eventually(propagated).Should(BeClosed())

		replica := transport.NewConn(liveClient, 1024, transport.Unbounded)
		for index := range writes {
			frame, err := replica.ReadOne()
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Value).To(Equal(resp.NewCommand("SET", []byte("k"), []byte(strconv.Itoa(index)))))
		}

		Expect(leader.Replicas()).To(Equal(2))
	})

	It("stops when the context ends", func() {
		leader := replication.NewLeader(events.NewProducer())
		defer leader.Close()

		server, client := net.Pipe()
		defer client.Close()
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		link := leader.Attach(2, "127.0.0.1", 6380)
		done := make(chan error, 1)

		go func() {
			done <- replication.Stream(ctx, transport.NewPipeline(transport.NewConn(server, 64, 0)), link)
		}()

		cancel()

		var err error
		Eventually(done).Should(Receive(&err))
		Expect(err).To(MatchError(replication.ErrReplicaClosed))
	})
})
