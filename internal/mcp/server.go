package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"productdesc/internal/catalog"
	"productdesc/internal/domain"
	"productdesc/internal/service"
)

// Server is the MCP server for productdesc.
// It exposes tools, resources, and prompts so AI agents can edit the
// active product description.
type Server struct {
	mcp     *server.MCPServer
	docs    *service.DocumentService
	store   *service.DocumentStore
	catalog *catalog.Catalog
	logger  *zap.Logger

	// persist saves the document after every change so other processes
	// watching the repository pick it up.
	persist bool
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Documents *service.DocumentService
	Catalog   *catalog.Catalog
	Logger    *zap.Logger
	Persist   bool
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		docs:    deps.Documents,
		store:   deps.Documents.Store(),
		catalog: deps.Catalog,
		logger:  logger,
		persist: deps.Persist,
	}

	s.mcp = server.NewMCPServer(
		"productdesc-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerDocumentTools()
	s.registerBlockTools()
	s.registerTemplateTools()
	s.registerMarkdownTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// changed persists the active document when the server runs standalone.
func (s *Server) changed(ctx context.Context) {
	if !s.persist {
		return
	}
	if err := s.docs.Save(ctx); err != nil && !errors.Is(err, service.ErrNoDocument) {
		s.logger.Warn("persist after tool call", zap.Error(err))
	}
}

// activeDocument returns the document being edited or a tool error.
func (s *Server) activeDocument() (domain.ProductDescription, error) {
	d, ok := s.store.Document()
	if !ok {
		return d, fmt.Errorf("no active document (use create_document or open_document first)")
	}
	return d, nil
}

// requireBlock checks that the active document has a block with id.
func (s *Server) requireBlock(args map[string]any) (string, error) {
	if _, err := s.activeDocument(); err != nil {
		return "", err
	}
	id, _ := args["blockId"].(string)
	if id == "" {
		return "", fmt.Errorf("blockId is required")
	}
	if _, ok := s.store.Block(id); !ok {
		return "", fmt.Errorf("block %s not found", id)
	}
	return id, nil
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// objectArg reads an object argument given either as a JSON object or
// as a JSON-encoded string.
func objectArg(args map[string]any, key string) (map[string]any, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, fmt.Errorf("%s must be a JSON object: %w", key, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a JSON object", key)
	}
}

// intArg reads a numeric argument; JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func boolPtr(v bool) *bool { return &v }
