// Package inspect serves a read-only view of a ctxsel Registry over HTTP.
//
// Routes:
//
//	GET /contexts          every registered context and its providers
//	GET /contexts/{name}   one context, 404 when unknown
//	GET /metrics           Prometheus exposition of the configured gatherer
//	GET /ws                WebSocket stream of registry events, JSON text
//	                       frames or CBOR binary frames with ?format=cbor
//
// Events and listings describe versions and listener counts. Published
// values are never exposed.
//
// # Usage
//
//	reg := ctxsel.NewRegistry()
//	Store := ctxsel.CreateContext(State{}, ctxsel.WithRegistry(reg))
//
//	srv := inspect.New(reg, inspect.WithGatherer(prometheus.DefaultGatherer))
//	go srv.ListenAndServe(ctx, ":7070")
package inspect
