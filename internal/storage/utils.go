package storage

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/PowerDNS/lmdb-go/lmdb"
)

const deadlineSize = 8

func hasError(err error) bool {
	return err != nil
}

func noError(err error) bool {
	return err == nil
}

func isNotFound(err error) bool {
	return lmdb.IsNotFound(err)
}

func ctxFlush(ctx context.Context) error {
	return ctx.Err()
}

func deadlineOf(expiry time.Duration, now time.Time) time.Time {
	if expiry <= 0 {
		return time.Time{}
	}

	return now.Add(expiry)
}

func isExpired(deadline, now time.Time) bool {
	return !deadline.IsZero() && !now.Before(deadline)
}

// encodeRecord prefixes value with its deadline in unix nanoseconds, zero
// meaning no expiry.
func encodeRecord(value []byte, deadline time.Time) []byte {
	record := make([]byte, deadlineSize+len(value))

	if !deadline.IsZero() {
		binary.BigEndian.PutUint64(record, uint64(deadline.UnixNano()))
	}

	copy(record[deadlineSize:], value)
	return record
}

func decodeRecord(record []byte) ([]byte, time.Time) {
	if len(record) < deadlineSize {
		return record, time.Time{}
	}

	var deadline time.Time
	if nanos := binary.BigEndian.Uint64(record); nanos != 0 {
		deadline = time.Unix(0, int64(nanos))
	}

	return record[deadlineSize:], deadline
}
