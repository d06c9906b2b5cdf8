package domain

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

type (
	PongReply      struct{}
	OkReply        struct{}
	QueuedReply    struct{}
	NullReply      struct{}
	NullArrayReply struct{}

	SimpleStringReply struct {
		Text string
	}

	BulkReply struct {
		Data []byte
	}

	IntegerReply struct {
		Num int64
	}

	ErrorReply struct {
		Text string
	}

	ArrayReply struct {
		Items []Output
	}

	PsyncReply struct {
		ReplID string
		Offset int64
	}

	StreamEntriesReply struct {
		Entries []StreamEntry
	}

	StreamReadReply struct {
		Reads []StreamRead
	}
)

var fullResync = []byte("FULLRESYNC")

func (PongReply) Value() resp.Value      { return resp.NewSimpleString("PONG") }
func (OkReply) Value() resp.Value        { return resp.NewSimpleString("OK") }
func (QueuedReply) Value() resp.Value    { return resp.NewSimpleString("QUEUED") }
func (NullReply) Value() resp.Value      { return resp.NewNull() }
func (NullArrayReply) Value() resp.Value { return resp.NewNullArray() }

func (reply SimpleStringReply) Value() resp.Value {
	return resp.NewSimpleString(reply.Text)
}

func (reply BulkReply) Value() resp.Value {
	return resp.NewBulk(reply.Data)
}

func (reply IntegerReply) Value() resp.Value {
	return resp.NewInteger(reply.Num)
}

func (reply ErrorReply) Value() resp.Value {
	return resp.NewError(reply.Text)
}

func (reply ArrayReply) Value() resp.Value {
	items := make([]resp.Value, 0, len(reply.Items))
	for _, item := range reply.Items {
		items = append(items, item.Value())
	}

	return resp.NewArray(items...)
}

func (reply PsyncReply) Value() resp.Value {
	return resp.NewSimpleString("FULLRESYNC " + reply.ReplID + " " + strconv.FormatInt(reply.Offset, 10))
}

func (reply StreamEntriesReply) Value() resp.Value {
	items := make([]resp.Value, 0, len(reply.Entries))
	for _, entry := range reply.Entries {
		items = append(items, entry.Value())
	}

	return resp.NewArray(items...)
}

func (reply StreamReadReply) Value() resp.Value {
	if len(reply.Reads) == 0 {
		return resp.NewNullArray()
	}

	items := make([]resp.Value, 0, len(reply.Reads))
	for _, read := range reply.Reads {
		entries := StreamEntriesReply{Entries: read.Entries}.Value()
		items = append(items, resp.NewArray(resp.NewBulk(read.Key), entries))
	}

	return resp.NewArray(items...)
}

func NewErrorReply(err error) ErrorReply {
	return ErrorReply{Text: ReplyText(err)}
}

func NewBulkOrNull(data []byte, found bool) Output {
	if !found {
		return NullReply{}
	}

	return BulkReply{Data: data}
}

func IsPong(value resp.Value) bool {
	return value.IsStringLike() && strings.EqualFold(value.Text(), "PONG")
}

func IsOk(value resp.Value) bool {
	return value.IsStringLike() && strings.EqualFold(value.Text(), "OK")
}

// ParsePsyncReply reads "+FULLRESYNC <replid> <offset>".
func ParsePsyncReply(value resp.Value) (PsyncReply, error) {
	if value.Kind() != resp.KindSimpleString {
		return PsyncReply{}, ErrUnexpectedResponse
	}

	fields := bytes.Fields(value.Bytes())
	if len(fields) != 3 || !bytes.EqualFold(fields[0], fullResync) {
		return PsyncReply{}, ErrUnexpectedResponse
	}

	offset, err := strconv.ParseInt(string(fields[2]), 10, 64)
	if hasError(err) {
		return PsyncReply{}, ErrUnexpectedResponse
	}

	return PsyncReply{ReplID: string(fields[1]), Offset: offset}, nil
}
