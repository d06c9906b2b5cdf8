package replication_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/replication"
	"github.com/luiz-simples/replikv.git/internal/resp"
)

type fixedSource struct{}

func (fixedSource) ReplID() string { return "8371b4fb1155b71f4a04d3e1bc3e18c4a990aeeb" }
func (fixedSource) Offset() int64  { return 0 }

var expectedResponses = []resp.Value{
	resp.NewSimpleString("PONG"),
	resp.NewSimpleString("OK"),
	resp.NewSimpleString("OK"),
	resp.NewSimpleString("FULLRESYNC 8371b4fb1155b71f4a04d3e1bc3e18c4a990aeeb 0"),
}

var _ = Describe("OutgoingHandshake", func() {
	It("emits the fixed request sequence", func() {
		handshake := replication.NewOutgoingHandshake(6380)
		sent := []resp.Value{}

		for index := 0; ; index++ {
			request, pending := handshake.Request()
			if !pending {
				break
			}

			sent = append(sent, request.Value())
			Expect(handshake.HandleResponse(expectedResponses[index])).To(Succeed())
		}

		Expect(sent).To(Equal([]resp.Value{
			resp.NewCommand("PING"),
			resp.NewCommand("REPLCONF", []byte("listening-port"), []byte("6380")),
			resp.NewCommand("REPLCONF", []byte("capa"), []byte("psync2")),
			resp.NewCommand("PSYNC", []byte("?"), []byte("-1")),
		}))
		Expect(handshake.IsFinished()).To(BeTrue())
		Expect(handshake.Result()).To(Equal(domain.PsyncReply{ReplID: fixedSource{}.ReplID(), Offset: 0}))
	})

	It("does not advance on an unexpected response at any step", func() {
		for failAt := range len(expectedResponses) {
			handshake := replication.NewOutgoingHandshake(6380)

			for step := range failAt {
				Expect(handshake.HandleResponse(expectedResponses[step])).To(Succeed())
			}

			err := handshake.HandleResponse(resp.NewError("ERR nope"))

			Expect(err).To(MatchError(domain.ErrUnexpectedResponse))
			Expect(handshake.Step()).To(Equal(failAt))
			Expect(handshake.IsFinished()).To(BeFalse())
		}
	})
})

var _ = Describe("IncomingHandshake", func() {
	var handshake *replication.IncomingHandshake

	BeforeEach(func() {
		handshake = replication.NewIncomingHandshake()
	})

	It("walks PING, REPLCONF, REPLCONF, PSYNC", func() {
		steps := []struct {
			input domain.Input
			reply domain.Output
		}{
			{domain.Ping{}, domain.PongReply{}},
			{domain.ReplConf{Option: domain.ListeningPort{Port: 6380}}, domain.OkReply{}},
			{domain.ReplConf{Option: domain.Capa{Capabilities: []string{"psync2"}}}, domain.OkReply{}},
			{domain.Psync{Offset: -1}, domain.PsyncReply{ReplID: fixedSource{}.ReplID()}},
		}

		for _, step := range steps {
			Expect(handshake.IsFinished()).To(BeFalse())

			reply, err := handshake.Handle(step.input, fixedSource{})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply).To(Equal(step.reply))
		}

		Expect(handshake.IsFinished()).To(BeTrue())
		Expect(handshake.Port()).To(Equal(6380))
		Expect(handshake.Capabilities()).To(ConsistOf("psync2"))
	})

	It("lets a replica skip the PING", func() {
		_, err := handshake.Handle(domain.ReplConf{Option: domain.ListeningPort{Port: 1}}, fixedSource{})
		Expect(err).NotTo(HaveOccurred())
		Expect(handshake.Step()).To(Equal(2))
	})

	DescribeTable("rejects out of order messages",
		func(prefix []domain.Input, input domain.Input) {
			for _, earlier := range prefix {
				_, err := handshake.Handle(earlier, fixedSource{})
				Expect(err).NotTo(HaveOccurred())
			}

			step := handshake.Step()
			_, err := handshake.Handle(input, fixedSource{})

			Expect(err).To(MatchError(domain.ErrInvalidHandshakeStep))
			Expect(handshake.Step()).To(Equal(step))
		},
		Entry("PSYNC first", nil, domain.Psync{}),
		Entry("capa before port", []domain.Input{domain.Ping{}}, domain.ReplConf{Option: domain.Capa{Capabilities: []string{"x"}}}),
		Entry("second PING", []domain.Input{domain.Ping{}}, domain.Ping{}),
		Entry("port twice", []domain.Input{domain.ReplConf{Option: domain.ListeningPort{Port: 1}}},
			domain.ReplConf{Option: domain.ListeningPort{Port: 1}}),
	)

	It("only claims PING before the exchange starts", func() {
		Expect(handshake.Accepts(domain.Ping{})).To(BeTrue())
		Expect(handshake.Accepts(domain.Get{Key: []byte("k")})).To(BeFalse())
		Expect(handshake.Accepts(domain.Ping{Message: []byte("hi"), HasMessage: true})).To(BeFalse())
		Expect(handshake.Accepts(domain.ReplConf{Option: domain.GetAck{Offset: -1}})).To(BeFalse())

		_, _ = handshake.Handle(domain.Ping{}, fixedSource{})

		Expect(handshake.Accepts(domain.Ping{})).To(BeFalse())
		Expect(handshake.Accepts(domain.Psync{})).To(BeTrue())
	})
})
