package domain

import (
	"strconv"
	"strings"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

type (
	ReplConfOption interface {
		Args() Args
	}

	ListeningPort struct {
		Port int
	}

	Capa struct {
		Capabilities []string
	}

	// GetAck asks a follower for its offset; Offset -1 stands for "*".
	GetAck struct {
		Offset int64
	}

	Ack struct {
		Offset int64
	}

	ReplConf struct {
		Option ReplConfOption
	}
)

func (option ListeningPort) Args() Args {
	return Args{[]byte("listening-port"), []byte(strconv.Itoa(option.Port))}
}

func (option Capa) Args() Args {
	args := make(Args, 0, len(option.Capabilities)*2)
	for _, capability := range option.Capabilities {
		args = append(args, []byte("capa"), []byte(capability))
	}

	return args
}

func (option GetAck) Args() Args {
	if option.Offset < 0 {
		return Args{[]byte("GETACK"), []byte("*")}
	}

	return Args{[]byte("GETACK"), formatInt(option.Offset)}
}

func (option Ack) Args() Args {
	return Args{[]byte("ACK"), formatInt(option.Offset)}
}

func (ReplConf) Name() string  { return REPLCONF }
func (ReplConf) IsWrite() bool { return false }

func (input ReplConf) Value() resp.Value {
	return resp.NewCommand(REPLCONF, input.Option.Args()...)
}

func parseReplConf(args Args) (Input, error) {
	option := normalize(args[firstArg])
	params := args[secondArg:]

	switch option {
	case "LISTENING-PORT":
		if len(params) != 1 {
			return nil, NewSyntaxError()
		}

		port, err := strconv.Atoi(string(params[0]))
		if hasError(err) || port < 0 || port > 65535 {
			return nil, NewMalformedError("ERR invalid listening port")
		}

		return ReplConf{Option: ListeningPort{Port: port}}, nil

	case "CAPA":
		return parseCapa(params)

	case "GETACK":
		if len(params) != 1 {
			return nil, NewSyntaxError()
		}

		if string(params[0]) == "*" {
			return ReplConf{Option: GetAck{Offset: -1}}, nil
		}

		offset, err := parseInt(params[0])
		if hasError(err) {
			return nil, err
		}

		return ReplConf{Option: GetAck{Offset: offset}}, nil

	case "ACK":
		if len(params) != 1 {
			return nil, NewSyntaxError()
		}

		offset, err := parseInt(params[0])
		if hasError(err) {
			return nil, err
		}

		return ReplConf{Option: Ack{Offset: offset}}, nil
	}

	return nil, NewMalformedError("ERR Unrecognized REPLCONF option: " + strings.ToLower(option))
}

// parseCapa accepts "capa a capa b" as sent by real replicas.
func parseCapa(params Args) (Input, error) {
	capabilities := make([]string, 0, len(params)/2+1)
	capabilities = append(capabilities, string(params[0]))

	rest := params[1:]
	if len(rest)%2 != 0 {
		return nil, NewSyntaxError()
	}

	for index := 0; index < len(rest); index += 2 {
		if normalize(rest[index]) != "CAPA" {
			return nil, NewSyntaxError()
		}

		capabilities = append(capabilities, string(rest[index+1]))
	}

	return ReplConf{Option: Capa{Capabilities: capabilities}}, nil
}
