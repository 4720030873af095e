package eventlog

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/vango-dev/ctxsel/pkg/ctxsel"
)

// encMode encodes events deterministically with nanosecond timestamps.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("eventlog: CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("eventlog: CBOR decoder mode: %v", err))
	}
}

// Encode encodes one event.
func Encode(ev ctxsel.Event) ([]byte, error) {
	return encMode.Marshal(ev)
}

// Decode decodes one event.
func Decode(data []byte) (ctxsel.Event, error) {
	var ev ctxsel.Event
	if err := decMode.Unmarshal(data, &ev); err != nil {
		return ctxsel.Event{}, err
	}
	return ev, nil
}

// NewEncoder returns an event stream encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns an event stream decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
