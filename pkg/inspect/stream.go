package inspect

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/ctxsel/pkg/ctxsel"
	"github.com/vango-dev/ctxsel/pkg/eventlog"
)

const writeTimeout = 5 * time.Second

// eventStream forwards registry events to WebSocket clients.
type eventStream struct {
	registry *ctxsel.Registry
	buffer   int
	logger   *slog.Logger

	clients  map[*websocket.Conn]func()
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

func newEventStream(reg *ctxsel.Registry, buffer int, logger *slog.Logger) *eventStream {
	return &eventStream{
		registry: reg,
		buffer:   buffer,
		logger:   logger,
		clients:  make(map[*websocket.Conn]func()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // read-only, local tooling
			},
		},
	}
}

// encoder turns an event into one WebSocket message.
type encoder func(ctxsel.Event) (int, []byte, error)

func encodeJSON(ev ctxsel.Event) (int, []byte, error) {
	data, err := json.Marshal(ev)
	return websocket.TextMessage, data, err
}

func encodeCBOR(ev ctxsel.Event) (int, []byte, error) {
	data, err := eventlog.Encode(ev)
	return websocket.BinaryMessage, data, err
}

// ServeHTTP upgrades the connection and streams events until the client
// disconnects or the stream is closed. ?format=cbor sends binary CBOR
// frames instead of JSON text.
func (s *eventStream) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	encode := encoder(encodeJSON)
	switch req.URL.Query().Get("format") {
	case "", "json":
	case "cbor":
		encode = encodeCBOR
	default:
		http.Error(w, "unknown format "+req.URL.Query().Get("format"), http.StatusBadRequest)
		return
	}

	// Watch before the handshake completes, so a client sees every event
	// recorded after its dial returned.
	events, stop := s.registry.Watch(s.buffer)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		stop()
		return
	}

	s.mu.Lock()
	s.clients[conn] = stop
	s.mu.Unlock()

	// Reads only detect the close; clients send nothing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()

	for ev := range events {
		kind, data, err := encode(ev)
		if err != nil {
			s.logger.Error("inspector: encode event", "error", err)
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(kind, data); err != nil {
			break
		}
	}
	s.drop(conn)
}

// drop unregisters conn, stops its watch and closes it. Safe to call more
// than once.
func (s *eventStream) drop(conn *websocket.Conn) {
	s.mu.Lock()
	stop, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if ok {
		stop()
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (s *eventStream) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close closes all client connections.
func (s *eventStream) Close() {
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(time.Second))
		s.drop(conn)
	}
}
