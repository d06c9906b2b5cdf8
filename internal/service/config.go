package service

import (
	"context"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

// Settings are the read-only parameters CONFIG GET exposes.
type Settings map[string]string

func (handler *Handler) config(_ context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.Config)
	subcommand := command.Subcommand()

	if subcommand != "GET" {
		return nil, unknownSubcommand(domain.CONFIG, subcommand)
	}

	if len(command.Args) < 2 {
		return nil, domain.NewArgsError("config|get")
	}

	matched := map[string]struct{}{}

	for _, arg := range command.Args[1:] {
		pattern, err := glob.Compile(strings.ToLower(string(arg)))
		if hasError(err) {
			return nil, domain.NewMalformedError("ERR invalid pattern '" + string(arg) + "'")
		}

		for name := range handler.settings {
			if pattern.Match(name) {
				matched[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}

	sort.Strings(names)

	items := make([]domain.Output, 0, len(names)*2)
	for _, name := range names {
		items = append(items, domain.BulkReply{Data: []byte(name)}, domain.BulkReply{Data: []byte(handler.settings[name])})
	}

	return domain.ArrayReply{Items: items}, nil
}
