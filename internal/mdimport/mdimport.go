// Package mdimport converts Markdown into text blocks.
package mdimport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"productdesc/internal/domain"
	"productdesc/internal/service"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToHTML renders Markdown to HTML.
func ToHTML(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// TextBlock builds a text block spec from Markdown. A leading level 1 or
// 2 heading becomes the block heading and is dropped from the content.
func TextBlock(src []byte) (service.BlockSpec, error) {
	heading, body := splitHeading(src)
	html, err := ToHTML(body)
	if err != nil {
		return service.BlockSpec{}, err
	}
	return service.BlockSpec{
		Type: domain.BlockTypeText,
		Fields: domain.Patch{
			"heading": heading,
			"content": strings.TrimSpace(html),
		},
	}, nil
}

func splitHeading(src []byte) (string, []byte) {
	doc := md.Parser().Parse(text.NewReader(src))
	first := doc.FirstChild()
	h, ok := first.(*ast.Heading)
	if !ok || h.Level > 2 || h.Lines().Len() == 0 {
		return "", src
	}
	seg := h.Lines().At(0)
	title := strings.TrimSpace(string(seg.Value(src)))

	// drop everything up to the end of the heading line
	rest := src[seg.Stop:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = nil
	}
	// setext underline
	trimmed := bytes.TrimLeft(rest, " ")
	if !atxHeading(src, seg.Start) && len(trimmed) > 0 && (trimmed[0] == '=' || trimmed[0] == '-') {
		line := trimmed
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if len(bytes.Trim(line, "=- \t\r")) == 0 {
			rest = trimmed[len(line):]
		}
	}
	return title, rest
}

// atxHeading reports whether the line holding offset opens with a # marker.
func atxHeading(src []byte, offset int) bool {
	start := bytes.LastIndexByte(src[:offset], '\n') + 1
	return bytes.HasPrefix(bytes.TrimLeft(src[start:offset], " "), []byte("#"))
}
