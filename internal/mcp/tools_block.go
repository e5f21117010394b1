package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"productdesc/internal/domain"
	"productdesc/internal/service"
)

func blockTypeList() string {
	names := make([]string, len(domain.BlockTypes))
	for i, t := range domain.BlockTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func (s *Server) registerBlockTools() {
	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List the blocks of the active document in render order, optionally filtered by type"),
		mcp.WithString("type", mcp.Description("Filter by block type (optional)")),
	), s.handleListBlocks)

	// ── get_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_block",
		mcp.WithDescription("Get the full content of a block"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleGetBlock)

	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Append a new block with default content to the active document and select it. Fields overwrite the defaults."),
		mcp.WithString("type",
			mcp.Description("Block type: "+blockTypeList()),
			mcp.Required(),
		),
		mcp.WithNumber("columns", mcp.Description("Grid columns for list blocks (optional, default 1)")),
		mcp.WithString("fields", mcp.Description("Initial field values as a JSON object, e.g. {\"heading\": \"Why you'll love it\"} (optional)")),
	), s.handleAddBlock)

	// ── update_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block",
		mcp.WithDescription("Overwrite top-level fields of a block. Arrays such as items or images are replaced as a whole."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("patch", mcp.Description("Fields to overwrite, as a JSON object"), mcp.Required()),
	), s.handleUpdateBlock)

	// ── duplicate_block ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_block",
		mcp.WithDescription("Append a copy of a block at the end of the document and select it"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleDuplicateBlock)

	// ── remove_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_block",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove a block from the active document"),
		mcp.WithString("blockId", mcp.Description("Block ID to remove"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveBlock)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block one position up or down"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("up or down"), mcp.Required(), mcp.Enum("up", "down")),
	), s.handleMoveBlock)

	// ── reorder_blocks ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_blocks",
		mcp.WithDescription("Move the block at index from to index to (0-based)"),
		mcp.WithNumber("from", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target index"), mcp.Required()),
	), s.handleReorderBlocks)

	// ── select_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_block",
		mcp.WithDescription("Select a block; the live preview scrolls to and highlights it. Pass an empty id to clear the selection."),
		mcp.WithString("blockId", mcp.Description("Block ID (empty clears the selection)")),
	), s.handleSelectBlock)
}

// blockSummary is a lightweight listing row.
type blockSummary struct {
	Index   int              `json:"index"`
	ID      string           `json:"id"`
	Type    domain.BlockType `json:"type"`
	Title   string           `json:"title"`
	Visible bool             `json:"visible"`
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.activeDocument()
	if err != nil {
		return nil, err
	}
	filter, _ := req.GetArguments()["type"].(string)

	out := []blockSummary{}
	for i, b := range d.Blocks {
		if filter != "" && string(b.Type) != filter {
			continue
		}
		out = append(out, blockSummary{Index: i, ID: b.ID, Type: b.Type, Title: b.Title, Visible: b.Visible})
	}
	return jsonResult(out)
}

func (s *Server) handleGetBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.requireBlock(req.GetArguments())
	if err != nil {
		return nil, err
	}
	b, _ := s.store.Block(id)
	return jsonResult(b)
}

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.activeDocument(); err != nil {
		return nil, err
	}
	args := req.GetArguments()
	typ, _ := args["type"].(string)
	bt := domain.BlockType(typ)
	if !bt.Supported() {
		return nil, fmt.Errorf("unsupported block type %q (valid: %s)", typ, blockTypeList())
	}
	fields, err := objectArg(args, "fields")
	if err != nil {
		return nil, err
	}
	cols, _ := intArg(args, "columns")

	id, err := s.store.AddBlock(service.BlockSpec{Type: bt, Columns: cols, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("add block: %w", err)
	}
	s.changed(ctx)
	b, _ := s.store.Block(id)
	return jsonResult(b)
}

func (s *Server) handleUpdateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.requireBlock(args)
	if err != nil {
		return nil, err
	}
	patch, err := objectArg(args, "patch")
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("patch is required")
	}
	if err := s.store.UpdateBlock(id, patch); err != nil {
		return nil, fmt.Errorf("update block: %w", err)
	}
	s.changed(ctx)
	b, _ := s.store.Block(id)
	return jsonResult(b)
}

func (s *Server) handleDuplicateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.requireBlock(req.GetArguments())
	if err != nil {
		return nil, err
	}
	newID, err := s.store.DuplicateBlock(id)
	if err != nil {
		return nil, fmt.Errorf("duplicate block: %w", err)
	}
	s.changed(ctx)
	d, _ := s.store.Document()
	return jsonResult(map[string]any{"sourceId": id, "blockId": newID, "index": d.IndexOf(newID)})
}

func (s *Server) handleRemoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.requireBlock(req.GetArguments())
	if err != nil {
		return nil, err
	}
	s.store.RemoveBlock(id)
	s.changed(ctx)
	return textResult(fmt.Sprintf("Block %s removed", id)), nil
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.requireBlock(args)
	if err != nil {
		return nil, err
	}
	switch dir, _ := args["direction"].(string); dir {
	case "up":
		s.store.MoveUp(id)
	case "down":
		s.store.MoveDown(id)
	default:
		return nil, fmt.Errorf("direction must be up or down, got %q", dir)
	}
	s.changed(ctx)
	d, _ := s.store.Document()
	return textResult(fmt.Sprintf("Block %s is now at index %d", id, d.IndexOf(id))), nil
}

func (s *Server) handleReorderBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.activeDocument()
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()
	from, ok1 := intArg(args, "from")
	to, ok2 := intArg(args, "to")
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("from and to are required")
	}
	n := len(d.Blocks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("index out of range (document has %d blocks)", n)
	}
	s.store.Reorder(from, to)
	s.changed(ctx)
	return textResult(fmt.Sprintf("Moved block from %d to %d", from, to)), nil
}

func (s *Server) handleSelectBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.activeDocument(); err != nil {
		return nil, err
	}
	id, _ := req.GetArguments()["blockId"].(string)
	if id != "" {
		if _, ok := s.store.Block(id); !ok {
			return nil, fmt.Errorf("block %s not found", id)
		}
	}
	s.store.Select(id)
	if id == "" {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Block %s selected", id)), nil
}
