package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTemplateTools() {
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the available description templates"),
		mcp.WithString("category", mcp.Description("Filter by category (optional)")),
	), s.handleListTemplates)

	s.mcp.AddTool(mcp.NewTool("apply_template",
		mcp.WithDescription("🛑 DESTRUCTIVE: Replace all blocks of the active document with the blocks of a template"),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleApplyTemplate)
}

type templateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	BlockCount  int    `json:"blockCount"`
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, _ := req.GetArguments()["category"].(string)
	tpls, err := s.catalog.Templates(ctx)
	if err != nil {
		return nil, err
	}
	out := []templateSummary{}
	for _, t := range tpls {
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, templateSummary{
			ID:          t.ID,
			Name:        t.Name,
			Category:    t.Category,
			Description: t.Description,
			BlockCount:  len(t.Blocks),
		})
	}
	return jsonResult(out)
}

func (s *Server) handleApplyTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.activeDocument(); err != nil {
		return nil, err
	}
	id, _ := req.GetArguments()["templateId"].(string)
	if id == "" {
		return nil, fmt.Errorf("templateId is required")
	}
	tpl, ok, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("template %s not found", id)
	}
	if err := s.store.ApplyTemplate(tpl); err != nil {
		return nil, fmt.Errorf("apply template: %w", err)
	}
	s.changed(ctx)
	d, _ := s.store.Document()
	return textResult(fmt.Sprintf("Template %s applied: %d blocks", tpl.ID, len(d.Blocks))), nil
}
