// Package eventlog records ctxsel registry events as a CBOR stream and
// reads them back.
//
// A recording holds provider lifecycle and protocol steps: mounts,
// pending updates, publishes, resolutions and unmounts, with versions and
// listener counts. Published values are never part of an event, so a
// recording can be shared without leaking application state.
//
// # Usage
//
//	w, err := eventlog.NewFileWriter("events.cbor")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	events, stop := registry.Watch(256)
//	defer stop()
//	go eventlog.Record(ctx, events, w)
//
//	r, err := eventlog.NewReader("events.cbor", eventlog.Filter{Context: "store"})
//	for {
//	    ev, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package eventlog
