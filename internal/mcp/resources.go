package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"productdesc/internal/analyzer"
	"productdesc/internal/render"
)

const (
	uriState    = "productdesc://document"
	uriHTML     = "productdesc://document/html"
	uriAnalysis = "productdesc://document/analysis"
)

func (s *Server) registerResources() {
	// ── productdesc://document ─────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriState,
		"Active Document",
		mcp.WithResourceDescription("The active document and the selected block"),
		mcp.WithMIMEType("application/json"),
	), s.handleStateResource)

	// ── productdesc://document/html ────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriHTML,
		"Rendered HTML",
		mcp.WithMIMEType("text/html"),
	), s.handleHTMLResource)

	// ── productdesc://document/analysis ────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriAnalysis,
		"Structure Analysis",
		mcp.WithMIMEType("application/json"),
	), s.handleAnalysisResource)
}

func (s *Server) handleStateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.store.State(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uriState, MIMEType: "application/json", Text: string(data)},
	}, nil
}

func (s *Server) handleHTMLResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	d, err := s.activeDocument()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uriHTML, MIMEType: "text/html", Text: render.Render(d)},
	}, nil
}

func (s *Server) handleAnalysisResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	d, err := s.activeDocument()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(analyzer.Analyze(d), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uriAnalysis, MIMEType: "application/json", Text: string(data)},
	}, nil
}
