package replication

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/luiz-simples/replikv.git/internal/domain"
	"github.com/luiz-simples/replikv.git/internal/resp"
)

const (
	replIDBytes   = 20
	emptySnapshot = "UkVESVMwMDEx+glyZWRpcy12ZXIFNy4yLjD6CnJlZGlzLWJpdHPAQPoFY3RpbWXCbQi8ZfoIdXNlZC1tZW3CsMQQAPoIYW9mLWJhc2XAAP/wbjv+wP9aog=="
)

var ErrReplicaClosed = errors.New("replica link closed")

func hasError(err error) bool {
	return err != nil
}

func noError(err error) bool {
	return err == nil
}

func unexpected(step int, value resp.Value) error {
	return pkgerrors.Wrapf(domain.ErrUnexpectedResponse, "step %d got %s", step, value.String())
}

// EmptySnapshot is the RDB image of an empty keyspace sent after FULLRESYNC.
func EmptySnapshot() []byte {
	snapshot, _ := base64.StdEncoding.DecodeString(emptySnapshot)
	return snapshot
}

func newReplID() string {
	id := make([]byte, replIDBytes)
	_, _ = rand.Read(id)
	return hex.EncodeToString(id)
}

func itoa(num int64) string {
	return strconv.FormatInt(num, 10)
}
