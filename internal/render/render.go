// Package render turns a product description into inline-styled HTML.
//
// Every visible block becomes one <section> carrying data-block-id and
// data-block-type, so consumers can address fragments by block id.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"productdesc/internal/domain"
)

// Render returns the HTML of doc's visible blocks in document order.
// It never fails: missing optional fields are omitted and unknown block
// types render a placeholder.
func Render(doc domain.ProductDescription) string {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		if !blk.Visible {
			continue
		}
		writeBlock(&b, blk)
	}
	return b.String()
}

// Block returns the fragment of a single block, wrapper included, whether
// or not it is visible.
func Block(blk domain.Block) string {
	var b strings.Builder
	writeBlock(&b, blk)
	return b.String()
}

func writeBlock(b *strings.Builder, blk domain.Block) {
	fmt.Fprintf(b, `<section data-block-id="%s" data-block-type="%s" class="pd-block pd-%s" style="margin:0 auto;max-width:1100px;padding:32px 16px">`,
		esc(blk.ID), esc(string(blk.Type)), esc(string(blk.Type)))

	switch c := blk.Content.(type) {
	case *domain.HeroContent:
		renderHero(b, c)
	case *domain.TextContent:
		renderText(b, c)
	case *domain.FeaturesContent:
		renderItems(b, c.Heading, c.Features, blk.Columns)
	case *domain.BenefitsContent:
		renderItems(b, c.Heading, c.Benefits, blk.Columns)
	case *domain.SpecificationsContent:
		renderSpecs(b, c)
	case *domain.ImageContent:
		renderImage(b, c)
	case *domain.GalleryContent:
		renderGallery(b, c, blk.Columns)
	case *domain.MediaTextContent:
		renderMediaText(b, c, blk.Type == domain.BlockTypeImageText)
	case *domain.FAQContent:
		renderFAQ(b, c)
	case *domain.CTAContent:
		renderCTA(b, c)
	case *domain.VideoContent:
		renderVideo(b, c)
	case *domain.UnknownContent:
		renderPlaceholder(b, c.Kind)
	default:
		if blk.Type.Supported() {
			renderEmpty(b, blk.Type)
		} else {
			renderPlaceholder(b, blk.Type)
		}
	}

	b.WriteString("</section>\n")
}

// esc escapes text for element content and quoted attribute values.
func esc(s string) string {
	return html.EscapeString(s)
}

func heading(b *strings.Builder, tag, text, style string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, `<%s style="%s">%s</%s>`, tag, style, esc(text), tag)
}

func paragraph(b *strings.Builder, text, style string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, `<p style="%s">%s</p>`, style, esc(text))
}

func gridStyle(columns int) string {
	if columns < 1 {
		columns = 1
	}
	return fmt.Sprintf("display:grid;grid-template-columns:repeat(%d,minmax(0,1fr));gap:24px", columns)
}

// safeCSSValue reports whether s can be placed inside a style attribute
// without breaking out of the declaration.
func safeCSSValue(s string) bool {
	return s != "" && !strings.ContainsAny(s, "'\"();\\<>\n\r{}")
}
