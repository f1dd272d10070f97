package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client is one open participant connection. Inbound frames are processed
// strictly sequentially by readPump; outbound frames are queued on send and
// written by writePump.
type Client struct {
	id          string
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	sessionKey  string
	participant string
	sink        ScoreSink
	connectedAt time.Time
}

// ID returns the connection's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// Participant returns the name that opened this connection.
func (c *Client) Participant() string {
	return c.participant
}

// readPump reads frames one at a time. Well-formed update_score commands are
// applied through the sink, which broadcasts the fresh snapshot. Malformed
// frames and unrecognized commands are dropped without a reply. Disconnect
// unregisters the connection but never terminates the session.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	cfg := c.hub.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("connection_id", c.id).Msg("websocket read error")
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Debug().Str("connection_id", c.id).Msg("ignoring malformed frame")
			continue
		}
		if cmd.Type != TypeUpdateScore {
			log.Debug().
				Str("connection_id", c.id).
				Str("type", cmd.Type).
				Msg("ignoring unrecognized command")
			continue
		}

		if err := c.sink.UpdateScores(context.Background(), c.sessionKey, c.participant, cmd.Payload); err != nil {
			// The session may have been terminated or expired under us;
			// the command is dropped, matching the trust boundary of the
			// inbound protocol.
			log.Debug().
				Err(err).
				Str("connection_id", c.id).
				Str("session_key", c.sessionKey).
				Msg("score update rejected")
		}
	}
}

// writePump drains the send queue to the peer and keeps the connection alive
// with pings. It exits when the hub closes the send channel or a write
// fails.
func (c *Client) writePump() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				// The hub dropped this connection.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
