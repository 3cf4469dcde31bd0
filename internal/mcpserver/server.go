// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the disease catalog as tools for LLM integration via stdio
// transport. The MCP surface is read-and-export only: mutations stay behind
// the pass-key gated API.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ehclinic/medcat/internal/catalog"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalog.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *catalog.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Medcat",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_diseases",
		mcp.WithDescription("Case-insensitive substring search across disease names, "+
			"symptoms, lab tests, diagnosis notes, and treatment. Empty query lists everything."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string (may be empty)")),
	), s.searchDiseases)

	s.mcp.AddTool(mcp.NewTool("read_disease",
		mcp.WithDescription("Read one catalog entry in full, including its references."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Disease id")),
	), s.readDisease)

	s.mcp.AddTool(mcp.NewTool("list_diseases",
		mcp.WithDescription("List every disease in the catalog (id and name)."),
	), s.listDiseases)

	s.mcp.AddTool(mcp.NewTool("export_document",
		mcp.WithDescription("Export the whole catalog document as pretty-printed JSON, "+
			"in the same format accepted by import. Read the medcat://document-format "+
			"resource for the shape."),
	), s.exportDocument)

	// Resource: document format contract.
	s.mcp.AddResource(
		mcp.NewResource("medcat://document-format", "Document Format Contract",
			mcp.WithResourceDescription("Canonical JSON document shape used by export and import."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormatResource,
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

func (s *Server) searchDiseases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDisease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.GetDisease(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(d, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDiseases(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := s.svc.Document(ctx)
	if len(doc.Diseases) == 0 {
		return mcp.NewToolResultText("catalog is empty"), nil
	}
	var lines []string
	for _, d := range doc.Diseases {
		lines = append(lines, fmt.Sprintf("%s\t%s", d.ID, d.Name))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) exportDocument(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, filename, err := s.svc.ExportDocument(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n%s", filename, data)), nil
}

func (s *Server) readDocumentFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "medcat://document-format",
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}
