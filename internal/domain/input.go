package domain

import (
	"strings"
	"time"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

type (
	// Output is anything that renders to a single reply value.
	Output interface {
		Value() resp.Value
	}

	Input interface {
		Output
		Name() string
		IsWrite() bool
	}

	Ping struct {
		Message    []byte
		HasMessage bool
	}

	Echo struct {
		Message []byte
	}

	Get struct {
		Key []byte
	}

	Set struct {
		Key    []byte
		Data   []byte
		Expiry time.Duration
		Get    bool
	}

	Multi       struct{}
	CommitMulti struct{}
	Discard     struct{}

	Psync struct {
		ReplID string
		Offset int64
	}

	XAdd struct {
		Key    []byte
		ID     StreamIDSpec
		Auto   bool
		Fields []Field
	}

	XRange struct {
		Key   []byte
		Start StreamID
		End   StreamID
		Count int
	}

	XRead struct {
		Count    int
		Block    time.Duration
		Blocking bool
		Queries  []StreamQuery
	}

	Client struct {
		Args Args
	}

	Config struct {
		Args Args
	}

	Info struct {
		Sections []string
	}
)

func (Ping) Name() string  { return PING }
func (Ping) IsWrite() bool { return false }

func (input Ping) Value() resp.Value {
	if input.HasMessage {
		return resp.NewCommand(PING, input.Message)
	}

	return resp.NewCommand(PING)
}

func (Echo) Name() string  { return ECHO }
func (Echo) IsWrite() bool { return false }

func (input Echo) Value() resp.Value {
	return resp.NewCommand(ECHO, input.Message)
}

func (Get) Name() string  { return GET }
func (Get) IsWrite() bool { return false }

func (input Get) Value() resp.Value {
	return resp.NewCommand(GET, input.Key)
}

func (Set) Name() string  { return SET }
func (Set) IsWrite() bool { return true }

func (input Set) Value() resp.Value {
	args := Args{input.Key, input.Data}

	if input.Expiry > 0 {
		args = append(args, []byte("PX"), formatInt(input.Expiry.Milliseconds()))
	}

	if input.Get {
		args = append(args, []byte(GET))
	}

	return resp.NewCommand(SET, args...)
}

// Event is what a successful Set propagates to replicas.
func (input Set) Event() Event {
	return Event{Key: input.Key, Value: input.Data, Expiry: input.Expiry}
}

func (Multi) Name() string      { return MULTI }
func (Multi) IsWrite() bool     { return false }
func (Multi) Value() resp.Value { return resp.NewCommand(MULTI) }

func (CommitMulti) Name() string      { return EXEC }
func (CommitMulti) IsWrite() bool     { return false }
func (CommitMulti) Value() resp.Value { return resp.NewCommand(EXEC) }

func (Discard) Name() string      { return DISCARD }
func (Discard) IsWrite() bool     { return false }
func (Discard) Value() resp.Value { return resp.NewCommand(DISCARD) }

func (Psync) Name() string  { return PSYNC }
func (Psync) IsWrite() bool { return false }

func (input Psync) Value() resp.Value {
	replID := input.ReplID
	if replID == "" {
		replID = "?"
	}

	return resp.NewCommand(PSYNC, []byte(replID), formatInt(input.Offset))
}

func (XAdd) Name() string  { return XADD }
func (XAdd) IsWrite() bool { return true }

func (input XAdd) Value() resp.Value {
	id := "*"
	if !input.Auto {
		id = input.ID.String()
	}

	args := Args{input.Key, []byte(id)}
	for _, field := range input.Fields {
		args = append(args, field.Name, field.Value)
	}

	return resp.NewCommand(XADD, args...)
}

func (XRange) Name() string  { return XRANGE }
func (XRange) IsWrite() bool { return false }

func (input XRange) Value() resp.Value {
	args := Args{input.Key, []byte(input.Start.String()), []byte(input.End.String())}

	if input.Count > 0 {
		args = append(args, []byte("COUNT"), formatInt(int64(input.Count)))
	}

	return resp.NewCommand(XRANGE, args...)
}

func (XRead) Name() string  { return XREAD }
func (XRead) IsWrite() bool { return false }

func (input XRead) Value() resp.Value {
	args := Args{}

	if input.Count > 0 {
		args = append(args, []byte("COUNT"), formatInt(int64(input.Count)))
	}

	if input.Blocking {
		args = append(args, []byte("BLOCK"), formatInt(input.Block.Milliseconds()))
	}

	args = append(args, []byte("STREAMS"))
	for _, query := range input.Queries {
		args = append(args, query.Key)
	}

	for _, query := range input.Queries {
		args = append(args, []byte(query.Cursor()))
	}

	return resp.NewCommand(XREAD, args...)
}

func (Client) Name() string  { return CLIENT }
func (Client) IsWrite() bool { return false }

func (input Client) Value() resp.Value {
	return resp.NewCommand(CLIENT, input.Args...)
}

// Subcommand is the uppercased first argument, or empty.
func (input Client) Subcommand() string {
	if len(input.Args) == 0 {
		return ""
	}

	return normalize(input.Args[0])
}

func (Config) Name() string  { return CONFIG }
func (Config) IsWrite() bool { return false }

func (input Config) Value() resp.Value {
	return resp.NewCommand(CONFIG, input.Args...)
}

func (input Config) Subcommand() string {
	if len(input.Args) == 0 {
		return ""
	}

	return normalize(input.Args[0])
}

func (Info) Name() string  { return INFO }
func (Info) IsWrite() bool { return false }

func (input Info) Value() resp.Value {
	args := make(Args, 0, len(input.Sections))
	for _, section := range input.Sections {
		args = append(args, []byte(section))
	}

	return resp.NewCommand(INFO, args...)
}

// Wants reports whether section was requested; no sections means all.
func (input Info) Wants(section string) bool {
	if len(input.Sections) == 0 {
		return true
	}

	for _, requested := range input.Sections {
		if strings.EqualFold(requested, section) || strings.EqualFold(requested, "all") {
			return true
		}
	}

	return false
}
