package transport

import (
	"sync"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

// Pipeline coalesces the replies to requests that arrived in one read into
// a single write. One goroutine may read while another writes.
type Pipeline struct {
	conn *Conn

	reading sync.Mutex
	mutex   sync.Mutex
	queue   []Frame
	pending []byte
	writes  int
}

func NewPipeline(conn *Conn) *Pipeline {
	return &Pipeline{conn: conn}
}

func (pipeline *Pipeline) Read() (Frame, error) {
	pipeline.reading.Lock()
	defer pipeline.reading.Unlock()

	if frame, ok := pipeline.pop(); ok {
		return frame, nil
	}

	err := pipeline.Flush()
	if hasError(err) {
		return Frame{}, err
	}

	frames, err := pipeline.conn.ReadAll()
	if len(frames) == 0 {
		return Frame{}, err
	}

	pipeline.mutex.Lock()
	pipeline.queue = append(pipeline.queue, frames[1:]...)
	pipeline.mutex.Unlock()

	return frames[0], nil
}

// ReadRaw bypasses the queue; it is only valid while nothing is queued.
func (pipeline *Pipeline) ReadRaw() (Frame, error) {
	pipeline.reading.Lock()
	defer pipeline.reading.Unlock()

	return pipeline.conn.ReadRaw()
}

// Write buffers value and flushes once no decoded request is left waiting.
func (pipeline *Pipeline) Write(value resp.Value) error {
	pipeline.mutex.Lock()
	pipeline.pending = resp.Append(pipeline.pending, value)
	drained := len(pipeline.queue) == 0
	pipeline.mutex.Unlock()

	if !drained {
		return nil
	}

	return pipeline.Flush()
}

func (pipeline *Pipeline) Flush() error {
	pipeline.mutex.Lock()
	defer pipeline.mutex.Unlock()

	if len(pipeline.pending) == 0 {
		return nil
	}

	_, err := pipeline.conn.Write(pipeline.pending)
	pipeline.pending = pipeline.pending[:0]
	pipeline.writes++

	return err
}

func (pipeline *Pipeline) Queued() int {
	pipeline.mutex.Lock()
	defer pipeline.mutex.Unlock()

	return len(pipeline.queue)
}

// Writes counts flushes that reached the stream.
func (pipeline *Pipeline) Writes() int {
	pipeline.mutex.Lock()
	defer pipeline.mutex.Unlock()

	return pipeline.writes
}

func (pipeline *Pipeline) Close() error {
	flushErr := pipeline.Flush()
	closeErr := pipeline.conn.Close()

	if hasError(flushErr) {
		return flushErr
	}

	return closeErr
}

func (pipeline *Pipeline) pop() (Frame, bool) {
	pipeline.mutex.Lock()
	defer pipeline.mutex.Unlock()

	if len(pipeline.queue) == 0 {
		return Frame{}, false
	}

	frame := pipeline.queue[0]
	pipeline.queue = pipeline.queue[1:]

	if len(pipeline.queue) == 0 {
		pipeline.queue = nil
	}

	return frame, true
}
