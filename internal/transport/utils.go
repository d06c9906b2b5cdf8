package transport

import (
	"errors"
	"io"
)

func hasError(err error) bool {
	return err != nil
}

func isClosed(err error) bool {
	return err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func IsClosed(err error) bool {
	return errors.Is(err, ErrStreamClosed) || errors.Is(err, ErrIO)
}

func IsBufferFull(err error) bool {
	return errors.Is(err, ErrBufferFull)
}
