package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zaruba-app/zaruba/scoring/service"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Zaruba Scoring Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Zaruba - real-time two-party product scoring

This is a thin client that proxies all requests to the REST API server.

Two participants share a session keyed by the second participant's name and
assign scores across a fixed product catalog. Live score updates flow over
WebSocket; these tools cover session administration.

AVAILABLE TOOLS:
- register_session: Create a session for two participants
- login: Resolve the second participant's name to a session key
- list_sessions: List all live sessions
- get_session: Get one session's participants, scores, and connections
- end_session: End a session and notify its participants
- list_products: Show the product catalog in order`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "register_session",
		Description: "Create a new scoring session for two participants",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"participant_a": map[string]interface{}{
					"type":        "string",
					"description": "First participant's display name",
				},
				"participant_b": map[string]interface{}{
					"type":        "string",
					"description": "Second participant's display name (becomes the session key)",
				},
			},
			Required: []string{"participant_a", "participant_b"},
		},
	}, c.handleRegisterSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "login",
		Description: "Resolve a second participant's name to an existing session key",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Second participant's display name",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleLogin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live scoring sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get a session's participants, score table, and open connections",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_key": map[string]interface{}{
					"type":        "string",
					"description": "Session key (the second participant's name)",
				},
			},
			Required: []string{"session_key"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_session",
		Description: "End a session; every connected participant is notified",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_key": map[string]interface{}{
					"type":        "string",
					"description": "Session key (the second participant's name)",
				},
			},
			Required: []string{"session_key"},
		},
	}, c.handleEndSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_products",
		Description: "Show the product catalog every session scores, in order",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListProducts)
}

// GetMCPServer returns the underlying MCP server, for mounting at an HTTP
// endpoint or serving over stdio.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs an HTTP request against the REST API.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleRegisterSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	participantA, _ := args["participant_a"].(string)
	participantB, _ := args["participant_b"].(string)

	body := map[string]string{
		"participant_a": participantA,
		"participant_b": participantB,
	}

	var res service.RegisterResult
	if err := c.apiCall("POST", "/api/register", body, &res); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Registered session: %s\nParticipants: %s vs %s\n",
		res.SessionKey, participantA, participantB)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLogin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)

	var res struct {
		SessionKey string `json:"session_key"`
	}
	if err := c.apiCall("POST", "/api/login", map[string]string{"name": name}, &res); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session key: %s", res.SessionKey)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s: %s vs %s (created %s)\n",
			s.SessionKey, s.ParticipantA, s.ParticipantB, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionKey, _ := args["session_key"].(string)

	var response struct {
		Session     service.SessionInfo `json:"session"`
		Connections []struct {
			Participant string `json:"participant"`
		} `json:"connections"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionKey), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&response.Session)
	if len(response.Connections) > 0 {
		names := make([]string, 0, len(response.Connections))
		for _, conn := range response.Connections {
			names = append(names, conn.Participant)
		}
		result += fmt.Sprintf("Connected: %s\n", strings.Join(names, ", "))
	} else {
		result += "Connected: nobody\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionKey, _ := args["session_key"].(string)

	if err := c.apiCall("POST", "/api/end_session", map[string]string{"session_key": sessionKey}, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s ended", sessionKey)), nil
}

func (c *Client) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Products []string `json:"products"`
	}
	if err := c.apiCall("GET", "/api/products", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Product Catalog (%d):\n", len(response.Products))
	for i, p := range response.Products {
		result += fmt.Sprintf("%2d. %s\n", i+1, p)
	}

	return mcp.NewToolResultText(result), nil
}

// formatSessionInfo renders one session as text for tool output.
func formatSessionInfo(info *service.SessionInfo) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Session %s\n", info.SessionKey)
	fmt.Fprintf(&sb, "Participants: %s vs %s\n", info.ParticipantA, info.ParticipantB)
	fmt.Fprintf(&sb, "Created: %s\n", info.CreatedAt.Format(time.RFC3339))

	for _, name := range []string{info.ParticipantA, info.ParticipantB} {
		scores := info.Scores[name]
		fmt.Fprintf(&sb, "\n%s (%d products):\n", name, len(scores))
		for product, score := range scores {
			fmt.Fprintf(&sb, "  %s: %d\n", product, score)
		}
	}
	sb.WriteString("\n")

	return sb.String()
}
