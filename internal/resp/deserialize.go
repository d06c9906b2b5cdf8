package resp

import (
	"errors"
	"strconv"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrProtocol   = errors.New("protocol error")
	ErrIncomplete = errors.New("incomplete input")
)

const (
	simpleSigil  = '+'
	errorSigil   = '-'
	integerSigil = ':'
	bulkSigil    = '$'
	arraySigil   = '*'

	nullLength     = -1
	MaxBulkLength  = 512 * 1024 * 1024
	MaxArrayLength = 1024 * 1024

	preallocLimit = 64
)

var (
	crlf           = []byte("\r\n")
	nullArrayFrame = []byte("*-1\r\n")
)

// Deserialize decodes the first value in buf and reports how many bytes it
// used. ErrIncomplete means buf ends before the value does; every other error
// wraps ErrProtocol.
func Deserialize(buf []byte) (Value, int, error) {
	if isEmpty(buf) {
		return Value{}, 0, ErrIncomplete
	}

	switch buf[0] {
	case simpleSigil:
		line, consumed, err := readLine(buf, 1)
		if hasError(err) {
			return Value{}, 0, err
		}
		return Value{kind: KindSimpleString, text: clone(line)}, consumed, nil

	case errorSigil:
		line, consumed, err := readLine(buf, 1)
		if hasError(err) {
			return Value{}, 0, err
		}
		return Value{kind: KindError, text: clone(line)}, consumed, nil

	case integerSigil:
		return readInteger(buf)

	case bulkSigil:
		return readBulk(buf)

	case arraySigil:
		return readArray(buf)
	}

	return Value{}, 0, pkgerrors.Wrapf(ErrProtocol, "unknown type byte %q", buf[0])
}

// DeserializeRaw decodes the snapshot frame `$<len>\r\n<payload>`, which has
// no trailing CRLF.
func DeserializeRaw(buf []byte) (Value, int, error) {
	if isEmpty(buf) {
		return Value{}, 0, ErrIncomplete
	}

	if buf[0] != bulkSigil {
		return Value{}, 0, pkgerrors.Wrapf(ErrProtocol, "expected '$' before raw payload, got %q", buf[0])
	}

	length, header, err := readLength(buf, MaxBulkLength)
	if hasError(err) {
		return Value{}, 0, err
	}

	if length == nullLength {
		return Value{}, 0, pkgerrors.Wrap(ErrProtocol, "raw payload cannot be null")
	}

	end := header + length
	if len(buf) < end {
		return Value{}, 0, ErrIncomplete
	}

	return Value{kind: KindRaw, text: clone(buf[header:end])}, end, nil
}

func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

func IsProtocolError(err error) bool {
	return errors.Is(err, ErrProtocol)
}

func readInteger(buf []byte) (Value, int, error) {
	line, consumed, err := readLine(buf, 1)
	if hasError(err) {
		return Value{}, 0, err
	}

	num, err := strconv.ParseInt(string(line), 10, 64)
	if hasError(err) {
		return Value{}, 0, pkgerrors.Wrapf(ErrProtocol, "invalid integer %q", line)
	}

	return Value{kind: KindInteger, num: num}, consumed, nil
}

func readBulk(buf []byte) (Value, int, error) {
	length, header, err := readLength(buf, MaxBulkLength)
	if hasError(err) {
		return Value{}, 0, err
	}

	if length == nullLength {
		return Value{kind: KindNull}, header, nil
	}

	end := header + length
	err = expectTerminator(buf, end)
	if hasError(err) {
		return Value{}, 0, err
	}

	return Value{kind: KindBulk, text: clone(buf[header:end])}, end + len(crlf), nil
}

func readArray(buf []byte) (Value, int, error) {
	count, offset, err := readLength(buf, MaxArrayLength)
	if hasError(err) {
		return Value{}, 0, err
	}

	if count == nullLength {
		return Value{kind: KindNullArray}, offset, nil
	}

	items := make([]Value, 0, min(count, preallocLimit))

	for range count {
		item, consumed, err := Deserialize(buf[offset:])
		if hasError(err) {
			return Value{}, 0, err
		}

		items = append(items, item)
		offset += consumed
	}

	return Value{kind: KindArray, items: items}, offset, nil
}

// readLength parses a `<sigil><decimal>\r\n` header and returns the decoded
// length and the header size.
func readLength(buf []byte, limit int) (int, int, error) {
	line, consumed, err := readLine(buf, 1)
	if hasError(err) {
		return 0, 0, err
	}

	if string(line) == "-1" {
		return nullLength, consumed, nil
	}

	if !isDecimal(line) {
		return 0, 0, pkgerrors.Wrapf(ErrProtocol, "invalid length %q", line)
	}

	length, err := strconv.Atoi(string(line))
	if hasError(err) || length > limit {
		return 0, 0, pkgerrors.Wrapf(ErrProtocol, "length %q out of range", line)
	}

	return length, consumed, nil
}

// readLine returns the bytes between start and the next CRLF plus the index
// right after it. A bare CR or LF is a protocol error.
func readLine(buf []byte, start int) ([]byte, int, error) {
	for index := start; index < len(buf); index++ {
		switch buf[index] {
		case '\n':
			return nil, 0, pkgerrors.Wrap(ErrProtocol, "bare LF in line")
		case '\r':
			if index+1 == len(buf) {
				return nil, 0, ErrIncomplete
			}
			if buf[index+1] != '\n' {
				return nil, 0, pkgerrors.Wrap(ErrProtocol, "bare CR in line")
			}
			return buf[start:index], index + len(crlf), nil
		}
	}

	return nil, 0, ErrIncomplete
}

func expectTerminator(buf []byte, end int) error {
	available := len(buf) - end

	if available > 0 && buf[end] != '\r' {
		return pkgerrors.Wrap(ErrProtocol, "missing CR after bulk payload")
	}

	if available > 1 && buf[end+1] != '\n' {
		return pkgerrors.Wrap(ErrProtocol, "missing LF after bulk payload")
	}

	if available < len(crlf) {
		return ErrIncomplete
	}

	return nil
}
