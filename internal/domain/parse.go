package domain

import (
	"strings"
	"time"

	"github.com/luiz-simples/replikv.git/internal/logger"
	"github.com/luiz-simples/replikv.git/internal/resp"
	"github.com/luiz-simples/replikv.git/internal/router"
)

type (
	parser struct {
		validation Validation
		parse      func(args Args) (Input, error)
	}
)

var parsers = newParsers()

func newParsers() *router.Router[parser] {
	table := map[string]parser{
		PING:     {Validation{MinArgs: 1, MaxArgs: 2}, parsePing},
		ECHO:     {Validation{MinArgs: 2, MaxArgs: 2}, parseEcho},
		GET:      {Validation{MinArgs: 2, MaxArgs: 2}, parseGet},
		SET:      {Validation{MinArgs: 3, MaxArgs: -1}, parseSet},
		MULTI:    {Validation{MinArgs: 1, MaxArgs: 1}, constant(Multi{})},
		EXEC:     {Validation{MinArgs: 1, MaxArgs: 1}, constant(CommitMulti{})},
		DISCARD:  {Validation{MinArgs: 1, MaxArgs: 1}, constant(Discard{})},
		REPLCONF: {Validation{MinArgs: 3, MaxArgs: -1}, parseReplConf},
		PSYNC:    {Validation{MinArgs: 3, MaxArgs: 3}, parsePsync},
		XADD:     {Validation{MinArgs: 5, MaxArgs: -1}, parseXAdd},
		XRANGE:   {Validation{MinArgs: 4, MaxArgs: 6}, parseXRange},
		XREAD:    {Validation{MinArgs: 4, MaxArgs: -1}, parseXRead},
		CLIENT:   {Validation{MinArgs: 2, MaxArgs: -1}, parseClient},
		CONFIG:   {Validation{MinArgs: 2, MaxArgs: -1}, parseConfig},
		INFO:     {Validation{MinArgs: 1, MaxArgs: -1}, parseInfo},
	}

	routes := router.New[parser]()
	for name, entry := range table {
		_ = routes.Register(name, entry)
	}

	return routes
}

// ParseInput maps a decoded request onto its command.
func ParseInput(value resp.Value) (Input, error) {
	args, err := requestArgs(value)
	if hasError(err) {
		return nil, err
	}

	entry, found := parsers.Route(args[commandArg])
	if !found {
		return nil, NewUnknownCommandError(string(args[commandArg]))
	}

	name := normalize(args[commandArg])

	err = isValid(entry.validation, name, len(args))
	if hasError(err) {
		return nil, err
	}

	return entry.parse(args)
}

func requestArgs(value resp.Value) (Args, error) {
	if value.IsStringLike() {
		logger.Debug("bare string request treated as command", "command", value.Text())
		return Args{value.Bytes()}, nil
	}

	if !value.IsArray() || value.Len() == 0 {
		return nil, NewMalformedError("ERR Protocol error: expected a command array")
	}

	args := make(Args, 0, value.Len())
	for _, item := range value.Items() {
		if !item.IsStringLike() {
			return nil, NewMalformedError("ERR Protocol error: expected bulk string arguments")
		}

		args = append(args, item.Bytes())
	}

	return args, nil
}

func constant(input Input) func(Args) (Input, error) {
	return func(Args) (Input, error) {
		return input, nil
	}
}

func parsePing(args Args) (Input, error) {
	if len(args) > firstArg {
		return Ping{Message: args[firstArg], HasMessage: true}, nil
	}

	return Ping{}, nil
}

func parseEcho(args Args) (Input, error) {
	return Echo{Message: args[firstArg]}, nil
}

func parseGet(args Args) (Input, error) {
	return Get{Key: args[firstArg]}, nil
}

func parseSet(args Args) (Input, error) {
	input := Set{Key: args[firstArg], Data: args[secondArg]}
	options := args[thirdArg:]

	for index := 0; index < len(options); index++ {
		switch normalize(options[index]) {
		case "GET":
			input.Get = true

		case "EX", "PX":
			if input.Expiry > 0 || index+1 >= len(options) {
				return nil, NewSyntaxError()
			}

			amount, err := parsePositive(options[index+1])
			if hasError(err) {
				return nil, err
			}

			unit := time.Millisecond
			if normalize(options[index]) == "EX" {
				unit = time.Second
			}

			input.Expiry = time.Duration(amount) * unit
			index++

		default:
			return nil, NewSyntaxError()
		}
	}

	return input, nil
}

func parsePsync(args Args) (Input, error) {
	replID := string(args[firstArg])
	if replID == "?" {
		replID = ""
	}

	offset, err := parseInt(args[secondArg])
	if hasError(err) {
		return nil, err
	}

	return Psync{ReplID: replID, Offset: offset}, nil
}

func parseXAdd(args Args) (Input, error) {
	pairs := args[thirdArg:]
	if len(pairs)%2 != 0 {
		return nil, NewArgsError(XADD)
	}

	id, auto, err := parseStreamIDSpec(args[secondArg])
	if hasError(err) {
		return nil, err
	}

	fields := make([]Field, 0, len(pairs)/2)
	for index := 0; index < len(pairs); index += 2 {
		fields = append(fields, Field{Name: pairs[index], Value: pairs[index+1]})
	}

	return XAdd{Key: args[firstArg], ID: id, Auto: auto, Fields: fields}, nil
}

func parseXRange(args Args) (Input, error) {
	start, err := parseRangeBound(args[secondArg], 0)
	if hasError(err) {
		return nil, err
	}

	end, err := parseRangeBound(args[thirdArg], MaxStreamID.Seq)
	if hasError(err) {
		return nil, err
	}

	input := XRange{Key: args[firstArg], Start: start, End: end}
	options := args[thirdArg+1:]

	if len(options) == 0 {
		return input, nil
	}

	if len(options) != 2 || normalize(options[0]) != "COUNT" {
		return nil, NewSyntaxError()
	}

	count, err := parseInt(options[1])
	if hasError(err) {
		return nil, err
	}

	input.Count = max(int(count), 0)
	return input, nil
}

func parseXRead(args Args) (Input, error) {
	input := XRead{}
	index := firstArg

	for index < len(args) {
		option := normalize(args[index])

		if option == "STREAMS" {
			return parseStreams(input, args[index+1:])
		}

		if index+1 >= len(args) {
			return nil, NewSyntaxError()
		}

		amount, err := parseInt(args[index+1])
		if hasError(err) {
			return nil, err
		}

		switch option {
		case "COUNT":
			input.Count = max(int(amount), 0)
		case "BLOCK":
			if amount < 0 {
				return nil, NewMalformedError("ERR timeout is negative")
			}

			input.Blocking = true
			input.Block = time.Duration(amount) * time.Millisecond
		default:
			return nil, NewSyntaxError()
		}

		index += 2
	}

	return nil, NewSyntaxError()
}

func parseStreams(input XRead, streams Args) (Input, error) {
	if len(streams) == 0 || len(streams)%2 != 0 {
		return nil, NewMalformedError("ERR Unbalanced 'xread' list of streams: for each stream key an ID or '$' must be specified.")
	}

	half := len(streams) / 2
	input.Queries = make([]StreamQuery, 0, half)

	for index := range half {
		query := StreamQuery{Key: streams[index]}
		cursor := streams[half+index]

		if string(cursor) == "$" {
			query.Latest = true
			input.Queries = append(input.Queries, query)
			continue
		}

		after, err := ParseStreamID(cursor, 0)
		if hasError(err) {
			return nil, err
		}

		query.After = after
		input.Queries = append(input.Queries, query)
	}

	return input, nil
}

func parseClient(args Args) (Input, error) {
	return Client{Args: args[firstArg:]}, nil
}

func parseConfig(args Args) (Input, error) {
	return Config{Args: args[firstArg:]}, nil
}

func parseInfo(args Args) (Input, error) {
	var sections []string
	for _, arg := range args[firstArg:] {
		sections = append(sections, strings.ToLower(string(arg)))
	}

	return Info{Sections: sections}, nil
}
