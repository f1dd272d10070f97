package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/zaruba-app/zaruba/internal/metrics"
)

// Outbound and inbound frame types.
const (
	TypeStateUpdate  = "state_update"
	TypeSessionEnded = "session_ended"
	TypeUpdateScore  = "update_score"
)

// Envelope is the outbound message frame, one JSON object per WebSocket
// message.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Command is the inbound frame from a participant.
type Command struct {
	Type    string         `json:"type"`
	Payload map[string]int `json:"payload"`
}

// ScoreSink applies a participant's replacement score map. Implemented by
// the scoring service.
type ScoreSink interface {
	UpdateScores(ctx context.Context, sessionKey, participant string, scores map[string]int) error
}

// Config holds connection tuning for the hub.
type Config struct {
	// WriteTimeout bounds a single message write to the peer.
	WriteTimeout time.Duration

	// ReadTimeout is the pong deadline; a silent peer is dropped after it.
	ReadTimeout time.Duration

	// PingInterval must be less than ReadTimeout.
	PingInterval time.Duration

	// MaxMessageSize caps inbound frames.
	MaxMessageSize int64

	// SendBuffer is the per-connection outbound queue. A full queue marks
	// the connection as a slow consumer and disconnects it.
	SendBuffer int

	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns the connection tuning used in production.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		SendBuffer:      256,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development
			// TODO: Configure this for production
			return true
		},
	}
}

// ConnectionInfo describes one open connection for admin views.
type ConnectionInfo struct {
	ID          string    `json:"id"`
	Participant string    `json:"participant"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Hub is the connection registry and broadcast engine. Connections are kept
// per session key in registration order; broadcasts are delivered in that
// order. An empty connection list is tolerated while its session lives,
// since a participant may reconnect later; Drop removes the whole list when
// the session goes away.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string][]*Client

	config   Config
	upgrader websocket.Upgrader
}

// NewHub creates a hub with default connection tuning.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultConfig())
}

// NewHubWithConfig creates a hub with explicit connection tuning.
func NewHubWithConfig(config Config) *Hub {
	return &Hub{
		sessions: make(map[string][]*Client),
		config:   config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
}

// ServeWS upgrades the request, registers the connection under sessionKey,
// sends one immediate state snapshot, and starts the read/write pumps.
// Session existence must be checked by the caller before upgrading; a
// connection that reaches this point is accepted.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionKey, participant string, sink ScoreSink, snapshot any) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return err
	}

	client := &Client{
		id:          uuid.New().String(),
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, h.config.SendBuffer),
		sessionKey:  sessionKey,
		participant: participant,
		sink:        sink,
		connectedAt: time.Now(),
	}

	// The initial snapshot goes only to the new connection. Registering and
	// enqueueing under one lock guarantees it precedes any broadcast that
	// follows registration.
	initial, err := json.Marshal(Envelope{Type: TypeStateUpdate, Data: snapshot})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal initial snapshot")
	}
	h.register(client, initial)

	go client.writePump()
	go client.readPump()

	log.Info().
		Str("connection_id", client.id).
		Str("session_key", sessionKey).
		Str("participant", participant).
		Msg("websocket connection established")

	return nil
}

// BroadcastState sends a state_update snapshot to every connection in the
// session.
func (h *Hub) BroadcastState(sessionKey string, snapshot any) {
	h.broadcast(sessionKey, Envelope{Type: TypeStateUpdate, Data: snapshot})
}

// BroadcastEnded sends the termination notice to every connection in the
// session.
func (h *Hub) BroadcastEnded(sessionKey string) {
	h.broadcast(sessionKey, Envelope{Type: TypeSessionEnded})
}

// broadcast serializes the envelope once and fans it out best-effort, in
// registration order. A connection whose send buffer is full is dropped;
// delivery to the remaining connections continues.
func (h *Hub) broadcast(sessionKey string, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("session_key", sessionKey).Msg("failed to marshal broadcast")
		return
	}

	// Sends run under the read lock and channel closes under the write
	// lock, so a send can never hit a closed channel: a client still in the
	// list has not been closed.
	var slow []*Client
	h.mu.RLock()
	for _, client := range h.sessions[sessionKey] {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		log.Warn().
			Str("connection_id", client.id).
			Str("session_key", sessionKey).
			Msg("send buffer full, dropping slow consumer")
		metrics.SlowConsumerDropsTotal.Inc()
		h.unregister(client)
	}

	metrics.BroadcastsTotal.Inc()
}

// ConnectionsFor returns the open connections for a session key in
// registration order. An unknown key yields an empty slice.
func (h *Hub) ConnectionsFor(sessionKey string) []ConnectionInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.sessions[sessionKey]
	out := make([]ConnectionInfo, 0, len(clients))
	for _, c := range clients {
		out = append(out, ConnectionInfo{
			ID:          c.id,
			Participant: c.participant,
			ConnectedAt: c.connectedAt,
		})
	}
	return out
}

// Drop closes every connection registered under the key and removes the
// whole set. Used at session termination and expiry so no socket outlives
// its session.
func (h *Hub) Drop(sessionKey string) {
	h.mu.Lock()
	clients := h.sessions[sessionKey]
	delete(h.sessions, sessionKey)
	for _, client := range clients {
		close(client.send)
	}
	h.mu.Unlock()

	for range clients {
		metrics.ConnectionsActive.Dec()
	}

	if len(clients) > 0 {
		log.Info().
			Str("session_key", sessionKey).
			Int("connections", len(clients)).
			Msg("connection set dropped")
	}
}

// register appends the client to its session's connection list, creating the
// list if absent, and enqueues the client's initial snapshot. The send never
// blocks: the channel is fresh and buffered.
func (h *Hub) register(c *Client, initial []byte) {
	h.mu.Lock()
	h.sessions[c.sessionKey] = append(h.sessions[c.sessionKey], c)
	total := len(h.sessions[c.sessionKey])
	if initial != nil {
		c.send <- initial
	}
	h.mu.Unlock()

	metrics.ConnectionsActive.Inc()
	log.Debug().
		Str("connection_id", c.id).
		Str("session_key", c.sessionKey).
		Int("clients", total).
		Msg("connection registered")
}

// unregister removes one client and closes its send channel. The session's
// list entry stays, possibly empty, until Drop. Presence in the list is the
// single close guard: a client removed here (or by Drop) is never closed
// twice.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	clients := h.sessions[c.sessionKey]
	idx := slices.Index(clients, c)
	if idx >= 0 {
		h.sessions[c.sessionKey] = slices.Delete(slices.Clone(clients), idx, idx+1)
		close(c.send)
	}
	h.mu.Unlock()

	if idx < 0 {
		return
	}

	metrics.ConnectionsActive.Dec()
	log.Debug().
		Str("connection_id", c.id).
		Str("session_key", c.sessionKey).
		Msg("connection unregistered")
}
