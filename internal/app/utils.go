package app

import (
	"errors"
	"net"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/resp"
	"github.com/luiz-simples/replikv.git/internal/transport"
)

var ErrInvalidReplicaOf = errors.New("invalid replicaof")

func hasError(err error) bool {
	return err != nil
}

// isFatal reports errors that end the connection instead of being replied.
func isFatal(err error) bool {
	return resp.IsProtocolError(err) || domain.IsHandshakeError(err) || transport.IsClosed(err)
}

func isDisconnect(err error) bool {
	return err == nil || errors.Is(err, transport.ErrStreamClosed) || errors.Is(err, net.ErrClosed)
}

// ParseReplicaOf splits "<host> <port>" as given to --replicaof.
func ParseReplicaOf(text string) (string, int, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return "", 0, pkgerrors.Wrapf(ErrInvalidReplicaOf, "expected \"<host> <port>\", got %q", text)
	}

	port, err := strconv.Atoi(fields[1])
	if hasError(err) || port <= 0 || port > 65535 {
		return "", 0, pkgerrors.Wrapf(ErrInvalidReplicaOf, "bad port %q", fields[1])
	}

	return fields[0], port, nil
}
