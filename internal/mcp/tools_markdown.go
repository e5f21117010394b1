package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"productdesc/internal/domain"
	"productdesc/internal/mdimport"
)

func (s *Server) registerMarkdownTools() {
	s.mcp.AddTool(mcp.NewTool("write_markdown",
		mcp.WithDescription("Add a text block from Markdown, or replace the content of an existing text block. A leading heading becomes the block heading."),
		mcp.WithString("content", mcp.Description("Markdown content"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Existing text block ID to update (optional, creates new if omitted)")),
	), s.handleWriteMarkdown)
}

func (s *Server) handleWriteMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.activeDocument(); err != nil {
		return nil, err
	}
	args := req.GetArguments()
	content, _ := args["content"].(string)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	spec, err := mdimport.TextBlock([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	// Update existing block
	if blockID, _ := args["blockId"].(string); blockID != "" {
		b, ok := s.store.Block(blockID)
		if !ok {
			return nil, fmt.Errorf("block %s not found", blockID)
		}
		if b.Type != domain.BlockTypeText {
			return nil, fmt.Errorf("block %s is a %s block, not text", blockID, b.Type)
		}
		if err := s.store.UpdateBlock(blockID, spec.Fields); err != nil {
			return nil, fmt.Errorf("update text block: %w", err)
		}
		s.changed(ctx)
		return textResult(fmt.Sprintf("Text block %s updated", blockID)), nil
	}

	id, err := s.store.AddBlock(spec)
	if err != nil {
		return nil, fmt.Errorf("create text block: %w", err)
	}
	s.changed(ctx)
	b, _ := s.store.Block(id)
	return jsonResult(b)
}
