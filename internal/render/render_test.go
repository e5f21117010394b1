package render

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesc/internal/domain"
	"productdesc/internal/service"
)

func docWith(blocks ...domain.Block) domain.ProductDescription {
	d := domain.NewProductDescription("Test", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	d.Blocks = blocks
	return d
}

func TestRender_DemoScenario(t *testing.T) {
	s := service.NewDocumentStore(nil)
	s.CreateDocument("Demo")
	heroID, err := s.AddBlock(service.BlockSpec{
		Type:   domain.BlockTypeHero,
		Fields: domain.Patch{"heading": "Welcome", "subheading": "Sub"},
	})
	require.NoError(t, err)
	_, err = s.AddBlock(service.BlockSpec{
		Type:   domain.BlockTypeText,
		Fields: domain.Patch{"content": "<p>hi</p>"},
	})
	require.NoError(t, err)

	d, _ := s.Document()
	out := Render(d)
	heroAt := strings.Index(out, `data-block-type="hero"`)
	textAt := strings.Index(out, "<p>hi</p>")
	require.GreaterOrEqual(t, heroAt, 0)
	require.GreaterOrEqual(t, textAt, 0)
	assert.Less(t, heroAt, textAt)
	assert.Contains(t, out, ">Welcome</h1>")
	assert.Contains(t, out, ">Sub</p>")

	s.RemoveBlock(heroID)
	d, _ = s.Document()
	out = Render(d)
	assert.NotContains(t, out, `data-block-type="hero"`)
	assert.NotContains(t, out, "Welcome")
	assert.Contains(t, out, "<p>hi</p>")
}

func TestRender_Deterministic(t *testing.T) {
	d := docWith()
	for _, bt := range domain.BlockTypes {
		d.Blocks = append(d.Blocks, domain.NewBlock(bt, 0))
	}
	assert.Equal(t, Render(d), Render(d))
}

func TestRender_OnlyVisibleInOrder(t *testing.T) {
	a := domain.NewBlock(domain.BlockTypeText, 1)
	b := domain.NewBlock(domain.BlockTypeFAQ, 1)
	b.Visible = false
	c := domain.NewBlock(domain.BlockTypeCTA, 1)

	out := Render(docWith(a, b, c))
	assert.NotContains(t, out, b.ID)
	ai, ci := strings.Index(out, a.ID), strings.Index(out, c.ID)
	require.GreaterOrEqual(t, ai, 0)
	assert.Greater(t, ci, ai)
	assert.Equal(t, 2, strings.Count(out, "<section "))
}

func TestRender_UnknownTypePlaceholder(t *testing.T) {
	blk := domain.Block{
		ID: "x1", Type: "carousel", Visible: true,
		Content: &domain.UnknownContent{Kind: "carousel", Fields: map[string]any{"slides": 3}},
	}
	out := Render(docWith(blk))
	assert.Contains(t, out, `data-block-id="x1"`)
	assert.Contains(t, out, "Unsupported block type: <code>carousel</code>")
}

func TestRender_MissingOptionalFields(t *testing.T) {
	hero := domain.Block{ID: "h", Type: domain.BlockTypeHero, Visible: true, Content: &domain.HeroContent{Heading: "Only"}}
	img := domain.Block{ID: "i", Type: domain.BlockTypeImage, Visible: true, Content: &domain.ImageContent{}}
	vid := domain.Block{ID: "v", Type: domain.BlockTypeVideo, Visible: true, Content: &domain.VideoContent{}}
	nilContent := domain.Block{ID: "n", Type: domain.BlockTypeText, Visible: true}

	out := Render(docWith(hero, img, vid, nilContent))
	assert.Contains(t, out, ">Only</h1>")
	assert.NotContains(t, out, "<a ")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<iframe")
	assert.NotContains(t, out, "<video")
	assert.Contains(t, out, `data-block-id="n"`)
}

func TestRender_EscapesText(t *testing.T) {
	blk := domain.Block{ID: `"><x`, Type: domain.BlockTypeHero, Visible: true,
		Content: &domain.HeroContent{Heading: "<script>alert(1)</script>", BackgroundImage: "a');x:url("}}
	out := Render(docWith(blk))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `data-block-id="&#34;&gt;&lt;x"`)
	assert.NotContains(t, out, "background-image")
}

func TestRender_ImageTextOrder(t *testing.T) {
	mt := &domain.MediaTextContent{Heading: "Story", Image: "pic.jpg"}
	it := domain.Block{ID: "a", Type: domain.BlockTypeImageText, Visible: true, Content: mt}
	ti := domain.Block{ID: "b", Type: domain.BlockTypeTextImage, Visible: true, Content: mt}

	out := Block(it)
	assert.Less(t, strings.Index(out, "<img"), strings.Index(out, "<h2"))
	out = Block(ti)
	assert.Less(t, strings.Index(out, "<h2"), strings.Index(out, "<img"))
}

func TestEmbedURL(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=abc123": "https://www.youtube.com/embed/abc123",
		"https://youtu.be/abc123":                "https://www.youtube.com/embed/abc123",
		"https://vimeo.com/76979871":             "https://player.vimeo.com/video/76979871",
	}
	for in, want := range cases {
		got, ok := EmbedURL(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := EmbedURL("https://cdn.example.com/clip.mp4")
	assert.False(t, ok)
}

func TestCache(t *testing.T) {
	var c Cache
	d := docWith(domain.NewBlock(domain.BlockTypeText, 1))
	first := c.Render(d)
	assert.Equal(t, Render(d), first)

	d.Blocks = append(d.Blocks, domain.NewBlock(domain.BlockTypeCTA, 1))
	assert.Equal(t, Render(d), c.Render(d))

	bad := docWith(domain.Block{ID: "nan", Type: "odd", Visible: true,
		Content: &domain.UnknownContent{Kind: "odd", Fields: map[string]any{"n": math.NaN()}}})
	assert.Equal(t, Render(bad), c.Render(bad))
}

func TestPage(t *testing.T) {
	var buf bytes.Buffer
	err := Page(PageOptions{Title: "Demo", LiveURL: "ws://localhost:7331/ws", SelectedID: "abc"}, "<p>x</p>").
		Render(context.Background(), &buf)
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<main id="pd-root"><p>x</p></main>`)
	assert.Contains(t, out, `data-live="ws://localhost:7331/ws"`)
	assert.Contains(t, out, "scrollIntoView")
	assert.Contains(t, out, `<script id="pd-selected" type="application/json">"abc"</script>`)

	buf.Reset()
	require.NoError(t, Page(PageOptions{}, "").Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "<script>")
}

func TestPage_EscapesUserText(t *testing.T) {
	var buf bytes.Buffer
	err := Page(PageOptions{
		Title:      "<Lamp & Co>",
		LiveURL:    `ws://host/ws"><script>alert(1)</script>`,
		SelectedID: "</script><b>x",
	}, "").Render(context.Background(), &buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<title>&lt;Lamp &amp; Co&gt;</title>")
	assert.NotContains(t, out, `"><script>alert(1)`)
	assert.NotContains(t, out, "</script><b>x")
	assert.Equal(t, 2, strings.Count(out, "</script>"))
}

func TestPage_DefaultTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(PageOptions{}, "<p>x</p>").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<title>Product description</title>")
	assert.Contains(t, buf.String(), `<main id="pd-root"><p>x</p></main>`)
}

func TestRender_KnownTypeWithoutContent(t *testing.T) {
	out := Render(docWith(domain.Block{ID: "h", Type: domain.BlockTypeHero, Visible: true}))
	assert.Contains(t, out, `data-block-id="h"`)
	assert.Contains(t, out, "Empty <code>hero</code> block")
	assert.NotContains(t, out, "Unsupported block type")
}
