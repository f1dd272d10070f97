// Package api provides the HTTP surface for the scoring server.
//
// It exposes:
//   - POST /api/register    create a session for two participants
//   - POST /api/login       resolve the second participant's name to a session key
//   - POST /api/end_session end a session and notify its connections
//   - GET  /api/products    the product catalog, in order
//   - GET  /api/sessions    all live sessions
//   - GET  /api/sessions/{key} one session plus its open connections
//   - GET  /ws              the realtime WebSocket gateway
//   - GET  /metrics         Prometheus metrics
//   - /                     static files for the browser UI
//
// Errors are returned as {"error": <message>, "code": <category>} where the
// category is one of validation_error, conflict_error, not_found,
// policy_rejection, or internal_error. None of them are fatal to the
// process.
package api
