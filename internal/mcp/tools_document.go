package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"productdesc/internal/analyzer"
	"productdesc/internal/domain"
	"productdesc/internal/render"
)

func (s *Server) registerDocumentTools() {
	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new product description and make it the active document. Optionally start from a template."),
		mcp.WithString("name", mcp.Description("Document name"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template to instantiate (optional, see list_templates)")),
	), s.handleCreateDocument)

	s.mcp.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Load a stored document and make it the active document"),
		mcp.WithString("documentId", mcp.Description("Document ID"), mcp.Required()),
	), s.handleOpenDocument)

	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Save the active document"),
	), s.handleSaveDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List stored documents"),
	), s.handleListDocuments)

	s.mcp.AddTool(mcp.NewTool("delete_document",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a stored document"),
		mcp.WithString("documentId", mcp.Description("Document ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteDocument)

	s.mcp.AddTool(mcp.NewTool("render_html",
		mcp.WithDescription("Render the visible blocks of the active document to HTML"),
	), s.handleRenderHTML)

	s.mcp.AddTool(mcp.NewTool("analyze_structure",
		mcp.WithDescription("Report heading structure, keywords and content statistics of the active document"),
	), s.handleAnalyzeStructure)
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var tpl *domain.Template
	if id, _ := args["templateId"].(string); id != "" {
		t, ok, err := s.catalog.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("template %s not found", id)
		}
		tpl = &t
	}

	d, err := s.docs.Create(ctx, name, tpl)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return jsonResult(d)
}

func (s *Server) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["documentId"].(string)
	if id == "" {
		return nil, fmt.Errorf("documentId is required")
	}
	d, err := s.docs.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(d)
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.activeDocument()
	if err != nil {
		return nil, err
	}
	if err := s.docs.Save(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Document %s saved", d.ID)), nil
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.DocumentSummary{}
	}
	return jsonResult(list)
}

func (s *Server) handleDeleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["documentId"].(string)
	if id == "" {
		return nil, fmt.Errorf("documentId is required")
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Document %s deleted", id)), nil
}

func (s *Server) handleRenderHTML(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.activeDocument()
	if err != nil {
		return nil, err
	}
	return textResult(render.Render(d)), nil
}

func (s *Server) handleAnalyzeStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.activeDocument()
	if err != nil {
		return nil, err
	}
	return jsonResult(analyzer.Analyze(d))
}
