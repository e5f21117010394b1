package render

import (
	"fmt"
	"strings"

	"productdesc/internal/domain"
)

const (
	h2Style     = "margin:0 0 24px;font-size:28px;font-weight:700;color:#111827"
	h3Style     = "margin:8px 0;font-size:18px;font-weight:600;color:#111827"
	bodyStyle   = "margin:0;font-size:16px;line-height:1.6;color:#4b5563"
	buttonStyle = "display:inline-block;margin-top:24px;padding:12px 28px;border-radius:8px;background:#2563eb;color:#ffffff;font-weight:600;text-decoration:none"
	imgStyle    = "display:block;width:100%;height:auto;border-radius:8px"
	figcapStyle = "margin-top:8px;font-size:14px;color:#6b7280;text-align:center"
)

func renderHero(b *strings.Builder, c *domain.HeroContent) {
	align := c.Alignment
	switch align {
	case "left", "center", "right":
	default:
		align = "center"
	}
	style := "padding:64px 24px;border-radius:12px;background:#f3f4f6;text-align:" + align
	if safeCSSValue(c.BackgroundImage) {
		style += ";background-image:url(" + c.BackgroundImage + ");background-size:cover;background-position:center"
	}
	fmt.Fprintf(b, `<div style="%s">`, esc(style))
	heading(b, "h1", c.Heading, "margin:0;font-size:44px;font-weight:800;color:#111827")
	paragraph(b, c.Subheading, "margin:16px 0 0;font-size:20px;color:#4b5563")
	button(b, c.ButtonText, c.ButtonURL)
	b.WriteString("</div>")
}

func button(b *strings.Builder, text, url string) {
	if text == "" {
		return
	}
	if url == "" {
		url = "#"
	}
	fmt.Fprintf(b, `<a href="%s" style="%s">%s</a>`, esc(url), buttonStyle, esc(text))
}

func renderText(b *strings.Builder, c *domain.TextContent) {
	heading(b, "h2", c.Heading, h2Style)
	if c.Content != "" {
		fmt.Fprintf(b, `<div class="pd-text-content" style="%s">%s</div>`, bodyStyle, c.Content)
	}
}

func renderItems(b *strings.Builder, title string, items []domain.Item, columns int) {
	heading(b, "h2", title, h2Style)
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, `<div style="%s">`, gridStyle(columns))
	for _, it := range items {
		b.WriteString(`<div style="padding:24px;border:1px solid #e5e7eb;border-radius:12px">`)
		if it.Icon != "" {
			fmt.Fprintf(b, `<div style="font-size:32px">%s</div>`, esc(it.Icon))
		}
		heading(b, "h3", it.Title, h3Style)
		paragraph(b, it.Description, bodyStyle)
		b.WriteString("</div>")
	}
	b.WriteString("</div>")
}

func renderSpecs(b *strings.Builder, c *domain.SpecificationsContent) {
	heading(b, "h2", c.Heading, h2Style)
	if len(c.Specs) == 0 {
		return
	}
	b.WriteString(`<table style="width:100%;border-collapse:collapse"><tbody>`)
	for _, s := range c.Specs {
		fmt.Fprintf(b,
			`<tr><th style="padding:12px;border-bottom:1px solid #e5e7eb;text-align:left;color:#111827">%s</th><td style="padding:12px;border-bottom:1px solid #e5e7eb;color:#4b5563">%s</td></tr>`,
			esc(s.Name), esc(s.Value))
	}
	b.WriteString("</tbody></table>")
}

func figure(b *strings.Builder, src, alt, caption string) {
	if src == "" && caption == "" {
		return
	}
	b.WriteString(`<figure style="margin:0">`)
	if src != "" {
		fmt.Fprintf(b, `<img src="%s" alt="%s" loading="lazy" style="%s">`, esc(src), esc(alt), imgStyle)
	}
	if caption != "" {
		fmt.Fprintf(b, `<figcaption style="%s">%s</figcaption>`, figcapStyle, esc(caption))
	}
	b.WriteString("</figure>")
}

func renderImage(b *strings.Builder, c *domain.ImageContent) {
	figure(b, c.Src, c.Alt, c.Caption)
}

func renderGallery(b *strings.Builder, c *domain.GalleryContent, columns int) {
	heading(b, "h2", c.Heading, h2Style)
	if len(c.Images) == 0 {
		return
	}
	fmt.Fprintf(b, `<div style="%s">`, gridStyle(columns))
	for _, img := range c.Images {
		figure(b, img.Src, img.Alt, img.Caption)
	}
	b.WriteString("</div>")
}

func renderMediaText(b *strings.Builder, c *domain.MediaTextContent, imageFirst bool) {
	b.WriteString(`<div style="display:flex;flex-wrap:wrap;align-items:center;gap:32px">`)
	img := func() {
		if c.Image == "" {
			return
		}
		fmt.Fprintf(b, `<div style="flex:1 1 320px"><img src="%s" alt="%s" loading="lazy" style="%s"></div>`,
			esc(c.Image), esc(c.ImageAlt), imgStyle)
	}
	text := func() {
		b.WriteString(`<div style="flex:1 1 320px">`)
		heading(b, "h2", c.Heading, h2Style)
		if c.Content != "" {
			fmt.Fprintf(b, `<div class="pd-text-content" style="%s">%s</div>`, bodyStyle, c.Content)
		}
		b.WriteString("</div>")
	}
	if imageFirst {
		img()
		text()
	} else {
		text()
		img()
	}
	b.WriteString("</div>")
}

func renderFAQ(b *strings.Builder, c *domain.FAQContent) {
	heading(b, "h2", c.Heading, h2Style)
	for _, it := range c.Items {
		if it.Question == "" {
			continue
		}
		b.WriteString(`<details style="padding:16px 0;border-bottom:1px solid #e5e7eb">`)
		fmt.Fprintf(b, `<summary style="cursor:pointer;font-weight:600;color:#111827">%s</summary>`, esc(it.Question))
		paragraph(b, it.Answer, "margin:12px 0 0;"+bodyStyle)
		b.WriteString("</details>")
	}
}

func renderCTA(b *strings.Builder, c *domain.CTAContent) {
	bg := "#1f2937"
	if safeCSSValue(c.BackgroundColor) {
		bg = c.BackgroundColor
	}
	fmt.Fprintf(b, `<div style="padding:48px 24px;border-radius:12px;text-align:center;background:%s">`, esc(bg))
	heading(b, "h2", c.Heading, "margin:0;font-size:32px;font-weight:700;color:#ffffff")
	paragraph(b, c.Description, "margin:12px 0 0;font-size:18px;color:#e5e7eb")
	button(b, c.ButtonText, c.ButtonURL)
	b.WriteString("</div>")
}

func renderVideo(b *strings.Builder, c *domain.VideoContent) {
	heading(b, "h2", c.Heading, h2Style)
	if c.URL != "" {
		if embed, ok := EmbedURL(c.URL); ok {
			fmt.Fprintf(b,
				`<div style="position:relative;padding-top:56.25%%"><iframe src="%s" title="%s" allowfullscreen style="position:absolute;inset:0;width:100%%;height:100%%;border:0;border-radius:8px"></iframe></div>`,
				esc(embed), esc(c.Heading))
		} else {
			fmt.Fprintf(b, `<video src="%s" controls preload="metadata" style="%s"></video>`, esc(c.URL), imgStyle)
		}
	}
	paragraph(b, c.Caption, figcapStyle)
}

func renderPlaceholder(b *strings.Builder, kind domain.BlockType) {
	fmt.Fprintf(b,
		`<div class="pd-unknown" style="padding:24px;border:2px dashed #f59e0b;border-radius:8px;color:#92400e;background:#fffbeb">Unsupported block type: <code>%s</code></div>`,
		esc(string(kind)))
}

// renderEmpty marks a block of a known type that carries no payload.
func renderEmpty(b *strings.Builder, kind domain.BlockType) {
	fmt.Fprintf(b,
		`<div class="pd-empty" style="padding:24px;border:2px dashed #cbd5e1;border-radius:8px;color:#64748b">Empty <code>%s</code> block</div>`,
		esc(string(kind)))
}
