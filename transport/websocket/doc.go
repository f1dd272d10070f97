// Package websocket provides the realtime transport for scoring sessions.
//
// The package implements the connection registry and broadcast engine:
//   - Per-session connection lists, kept in registration order
//   - A broadcast path that serializes a snapshot once and fans it out
//     best-effort, in registration order
//   - Connection lifecycle management (register, unregister, drop)
//   - The per-connection gateway loop for inbound score updates
//
// Architecture:
//
// A central Hub owns all connection state. Each accepted connection gets a
// dedicated read goroutine and write goroutine; the read side processes
// inbound frames strictly sequentially, the write side drains a buffered
// queue. A connection whose queue overflows is treated as a slow consumer
// and dropped, so one stalled participant never delays the other.
//
// Message Protocol:
//
// One JSON object per WebSocket message.
//   - Outgoing: {"type": "state_update", "data": <session snapshot>} on
//     connect and after every accepted update, and {"type": "session_ended"}
//     right before explicit termination tears a session down.
//   - Incoming: {"type": "update_score", "payload": {<product>: <score>}}
//     replaces the sender's entire score map. Malformed or unrecognized
//     frames are dropped silently.
//
// Session Integration:
//
// Clients connect with ?session=<key>&name=<participant>. The HTTP layer
// verifies the session exists before the upgrade; a connection against an
// unknown session is refused at handshake. Disconnecting never ends the
// session: the other participant may keep scoring, and the peer can
// reconnect.
package websocket
