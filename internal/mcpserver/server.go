// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the flight store for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tarmac/internal/api"
	"github.com/starford/tarmac/internal/query"
)

// Server wraps the MCP server with tarmac tools.
type Server struct {
	mcp *server.MCPServer
	svc *api.Service
}

// New creates a new MCP server with all tarmac tools registered.
func New(svc *api.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Tarmac",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_flights",
		mcp.WithDescription("List flight records, optionally filtered by one field "+
			"(case-insensitive equality, e.g. field=origin value=JFK)."),
		mcp.WithString("field", mcp.Description("Optional field name to filter on")),
		mcp.WithString("value", mcp.Description("Expected value for the filter field")),
	), s.listFlights)

	s.mcp.AddTool(mcp.NewTool("get_flight",
		mcp.WithDescription("Fetch a single flight record by flight_id."),
		mcp.WithString("flight_id", mcp.Required(), mcp.Description("Flight identifier (e.g. AA100)")),
	), s.getFlight)

	s.mcp.AddTool(mcp.NewTool("run_query",
		mcp.WithDescription("Run one declarative query against the flight store. "+
			"The query MUST follow the schedule contract's query object format. "+
			"Read the contract first via the get_schedule_contract tool or the "+
			"tarmac://schedule-format resource."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Query object as JSON text")),
	), s.runQuery)

	s.mcp.AddTool(mcp.NewTool("get_schedule_contract",
		mcp.WithDescription("Returns the canonical flight-schedule CSV schema and "+
			"query document contract. Call this before constructing queries."),
	), s.getScheduleContract)

	// Resource: schedule format contract.
	s.mcp.AddResource(
		mcp.NewResource("tarmac://schedule-format", "Flight Schedule Contract",
			mcp.WithResourceDescription("Canonical CSV schema and query format for the flight store."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readScheduleFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listFlights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var spec query.Spec
	if field, err := req.RequireString("field"); err == nil && field != "" {
		value, err := req.RequireString("value")
		if err != nil {
			return mcp.NewToolResultError("value is required when field is set"), nil
		}
		spec.Filter = map[string]any{field: value}
	}

	res, err := s.svc.Query(spec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res.Results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getFlight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("flight_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	flight, err := s.svc.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(flight, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) runQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var spec query.Spec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid query JSON: %v", err)), nil
	}

	res, err := s.svc.Query(spec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getScheduleContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ScheduleContract), nil
}

func (s *Server) readScheduleFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "tarmac://schedule-format",
			MIMEType: "text/markdown",
			Text:     ScheduleContract,
		},
	}, nil
}
