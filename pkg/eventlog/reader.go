package eventlog

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/vango-dev/ctxsel/pkg/ctxsel"
)

// Filter selects events. Zero fields match every event.
type Filter struct {
	// Context matches the context name exactly.
	Context string

	// Kinds matches any of the listed kinds.
	Kinds []ctxsel.EventKind

	// ProviderID matches the provider exactly.
	ProviderID string

	// Since matches events at or after this time.
	Since time.Time
}

func (f *Filter) matches(ev ctxsel.Event) bool {
	if f.Context != "" && ev.Context != f.Context {
		return false
	}
	if f.ProviderID != "" && ev.ProviderID != f.ProviderID {
		return false
	}
	if !f.Since.IsZero() && ev.At.Before(f.Since) {
		return false
	}
	if len(f.Kinds) > 0 {
		for _, k := range f.Kinds {
			if ev.Kind == k {
				return true
			}
		}
		return false
	}
	return true
}

// Reader iterates over a recorded event stream.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens the recording at path.
func NewReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{closer: f, decoder: NewDecoder(f), filter: filter}, nil
}

// NewStreamReader reads a recording from r.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{decoder: NewDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the
// recording.
func (r *Reader) Next() (ctxsel.Event, error) {
	for {
		var ev ctxsel.Event
		if err := r.decoder.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return ctxsel.Event{}, io.EOF
			}
			return ctxsel.Event{}, err
		}
		if r.filter.matches(ev) {
			return ev, nil
		}
	}
}

// All reads every remaining matching event.
func (r *Reader) All() ([]ctxsel.Event, error) {
	var out []ctxsel.Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, ev)
	}
}

// Close closes the file opened by NewReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
