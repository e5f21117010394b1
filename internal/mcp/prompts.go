package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("describe_product",
		mcp.WithPromptDescription("Guide through writing a complete product description from a template"),
		mcp.WithArgument("product",
			mcp.ArgumentDescription("Product name"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("audience",
			mcp.ArgumentDescription("Target audience (optional)"),
		),
	), s.handleDescribeProductPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("seo_review",
		mcp.WithPromptDescription("Review the active document's heading structure and keywords and fix the problems found"),
	), s.handleSEOReviewPrompt)
}

func (s *Server) handleDescribeProductPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := req.Params.Arguments["product"]
	audience := req.Params.Arguments["audience"]
	if audience == "" {
		audience = "online shoppers"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Write a product description for: %s", product),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Write a product description for "%s" aimed at %s. Follow these steps:

1. Use list_templates and pick the template that fits the product best
2. Create the document with create_document, passing name "%s" and the chosen templateId
3. Use list_blocks, then fill every block with update_block: a hero with a single H1 headline, concrete features and benefits, accurate specifications and FAQ answers
4. Add any missing sections with add_block or write_markdown; hide or remove blocks that do not apply
5. Run analyze_structure and address its recommendations
6. Save with save_document

Keep the copy factual and scannable.`, product, audience, product),
				},
			},
		},
	}, nil
}

func (s *Server) handleSEOReviewPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Review and improve the active product description",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Review the active product description:

1. Run analyze_structure
2. Make sure there is exactly one H1 and that heading levels never skip (H2 after H1, H3 after H2)
3. If the word count is low, expand the text blocks with useful detail
4. Check that the top keywords match what a shopper would search for
5. Add images, a gallery or a video if none are present
6. Save with save_document when done`,
				},
			},
		},
	}, nil
}
