// Package mcp provides a Model Context Protocol surface for session
// administration.
//
// The package is a thin client: every tool call is proxied to the REST API,
// so the MCP surface never touches the scoring service or the store
// directly. This keeps one source of truth for validation and error
// reporting.
//
// MCP Tools:
//
//   - register_session: Create a session for two participants
//   - login: Resolve the second participant's name to a session key
//   - list_sessions: List all live sessions
//   - get_session: Get a session's participants, scores, and connections
//   - end_session: End a session and notify its participants
//   - list_products: Show the product catalog in order
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: direct stdio communication for local MCP clients
//   - HTTP: streamable HTTP endpoint mounted next to the REST API
//
// Usage:
//
//	// HTTP mode
//	client := mcp.NewClient("http://localhost:8080")
//	httpServer := server.NewStreamableHTTPServer(client.GetMCPServer())
//	mux.Handle("/mcp", httpServer)
//
//	// Stdio mode
//	client := mcp.NewClient(baseURL)
//	server.ServeStdio(client.GetMCPServer())
//
// Score updates are deliberately absent from the tool set: live scoring is
// the WebSocket protocol's job, and administrative tools should not race
// with it.
package mcp
