package eventlog

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/vango-dev/ctxsel/pkg/ctxsel"
)

// Sink receives recorded events.
type Sink interface {
	Write(ev ctxsel.Event) error
}

// Writer encodes events to an io.Writer. It is safe for concurrent use.
type Writer struct {
	closer  io.Closer
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewWriter returns a Writer encoding to w. Close does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: NewEncoder(w)}
}

// NewFileWriter returns a Writer appending to the file at path, creating
// it with permissions 0644 if needed. Close closes the file.
func NewFileWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{closer: f, encoder: NewEncoder(f)}, nil
}

// Write encodes ev. Writes after Close are ignored.
func (w *Writer) Write(ev ctxsel.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	return w.encoder.Encode(ev)
}

// Close stops the writer and closes the file it owns. It is safe to call
// Close multiple times.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Record writes events to sink until the channel closes, ctx is done or a
// write fails. Events already buffered when ctx is done are still written.
func Record(ctx context.Context, events <-chan ctxsel.Event, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return drain(events, sink)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := sink.Write(ev); err != nil {
				return err
			}
		}
	}
}

func drain(events <-chan ctxsel.Event, sink Sink) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := sink.Write(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

var _ Sink = (*Writer)(nil)
