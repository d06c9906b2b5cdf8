package transport

import (
	"errors"
	"fmt"
	"io"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

const (
	DefaultCapacity = 64 * 1024
	Unbounded       = 0
)

var (
	ErrStreamClosed = errors.New("stream closed")
	ErrIO           = errors.New("io error")
	ErrBufferFull   = errors.New("request does not fit the read buffer")
)

type (
	// Frame is a decoded value and the number of wire bytes it took.
	Frame struct {
		Value resp.Value
		Size  int
	}

	decoder func(buf []byte) (resp.Value, int, error)

	// Conn decodes values out of a fixed receive window over a duplex stream.
	// Bytes live in window[start:end]; space is reclaimed only when a read
	// needs it.
	Conn struct {
		stream   io.ReadWriter
		window   []byte
		start    int
		end      int
		maxBatch int
	}
)

func NewConn(stream io.ReadWriter, capacity, maxBatch int) *Conn {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Conn{
		stream:   stream,
		window:   make([]byte, capacity),
		maxBatch: max(maxBatch, Unbounded),
	}
}

func (conn *Conn) ReadOne() (Frame, error) {
	return conn.readWith(resp.Deserialize)
}

// ReadRaw reads a snapshot transfer framed as $<len>\r\n<bytes>.
func (conn *Conn) ReadRaw() (Frame, error) {
	return conn.readWith(resp.DeserializeRaw)
}

// ReadAll blocks for the first value and then drains whatever else is
// already buffered, without touching the stream again.
func (conn *Conn) ReadAll() ([]Frame, error) {
	first, err := conn.ReadOne()
	if hasError(err) {
		return nil, err
	}

	frames := []Frame{first}

	for conn.Buffered() > 0 && !conn.batchFull(len(frames)) {
		frame, err := conn.decode(resp.Deserialize)

		if resp.IsIncomplete(err) {
			break
		}

		if hasError(err) {
			return frames, err
		}

		frames = append(frames, frame)
	}

	return frames, nil
}

func (conn *Conn) WriteOne(value resp.Value) (int, error) {
	return conn.Write(resp.Serialize(value))
}

func (conn *Conn) WriteMany(values ...resp.Value) (int, error) {
	return conn.Write(resp.SerializeMany(values...))
}

func (conn *Conn) Write(data []byte) (int, error) {
	written, err := conn.stream.Write(data)
	if hasError(err) {
		return written, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return written, nil
}

func (conn *Conn) Buffered() int {
	return conn.end - conn.start
}

func (conn *Conn) Close() error {
	closer, ok := conn.stream.(io.Closer)
	if !ok {
		return nil
	}

	return closer.Close()
}

func (conn *Conn) readWith(decode decoder) (Frame, error) {
	for {
		if conn.Buffered() > 0 {
			frame, err := conn.decode(decode)
			if !resp.IsIncomplete(err) {
				return frame, err
			}
		}

		err := conn.fill()
		if hasError(err) {
			return Frame{}, err
		}
	}
}

func (conn *Conn) decode(decode decoder) (Frame, error) {
	value, size, err := decode(conn.window[conn.start:conn.end])
	if hasError(err) {
		return Frame{}, err
	}

	conn.consume(size)
	return Frame{Value: value, Size: size}, nil
}

func (conn *Conn) consume(size int) {
	conn.start += size

	if conn.start == conn.end {
		conn.start = 0
		conn.end = 0
	}
}

func (conn *Conn) fill() error {
	if conn.end == len(conn.window) {
		if conn.start == 0 {
			return ErrBufferFull
		}

		conn.end = copy(conn.window, conn.window[conn.start:conn.end])
		conn.start = 0
	}

	read, err := conn.stream.Read(conn.window[conn.end:])
	conn.end += read

	if read > 0 {
		return nil
	}

	if isClosed(err) {
		return ErrStreamClosed
	}

	return fmt.Errorf("%w: %w", ErrIO, err)
}

func (conn *Conn) batchFull(count int) bool {
	return conn.maxBatch != Unbounded && count >= conn.maxBatch
}
