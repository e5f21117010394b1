package domain_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesc/internal/domain"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewBlock_EverySupportedType(t *testing.T) {
	seen := map[string]bool{}
	for _, bt := range domain.BlockTypes {
		b := domain.NewBlock(bt, 0)
		assert.Equal(t, bt, b.Type)
		assert.NotEmpty(t, b.ID)
		assert.True(t, b.Visible)
		assert.Positive(t, b.Columns)
		require.NotNil(t, b.Content, "type %s", bt)
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
	}
}

func TestNewBlock_UnsupportedFallsBackToText(t *testing.T) {
	b := domain.NewBlock("carousel", 2)
	assert.Equal(t, domain.BlockTypeText, b.Type)
	assert.Equal(t, 2, b.Columns)
	_, ok := b.Content.(*domain.TextContent)
	assert.True(t, ok)
}

func TestBlock_JSONIsFlat(t *testing.T) {
	b := domain.NewBlock(domain.BlockTypeHero, 1)
	b.Content = &domain.HeroContent{Heading: "Welcome", Subheading: "Sub"}

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "hero", fields["type"])
	assert.Equal(t, "Welcome", fields["heading"])
	assert.Equal(t, "Sub", fields["subheading"])
	assert.Equal(t, true, fields["visible"])
}

func TestBlock_UnmarshalDefaultsVisible(t *testing.T) {
	var b domain.Block
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"text","content":"<p>x</p>"}`), &b))
	assert.True(t, b.Visible)
	assert.Equal(t, "<p>x</p>", b.Content.(*domain.TextContent).Content)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"text","visible":false}`), &b))
	assert.False(t, b.Visible)
}

func TestBlock_UnknownTypeRoundTrips(t *testing.T) {
	in := `{"id":"x1","type":"countdown","title":"","columns":1,"visible":true,"deadline":"2026-12-24","seconds":86400}`
	var b domain.Block
	require.NoError(t, json.Unmarshal([]byte(in), &b))

	u, ok := b.Content.(*domain.UnknownContent)
	require.True(t, ok)
	assert.Equal(t, domain.BlockType("countdown"), u.Kind)
	assert.Equal(t, "2026-12-24", u.Fields["deadline"])
	assert.NotContains(t, u.Fields, "id")

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestBlock_CloneIsDeep(t *testing.T) {
	src := domain.NewBlock(domain.BlockTypeFeatures, 3)
	dup, err := src.Clone()
	require.NoError(t, err)
	assert.Equal(t, src, dup)

	dup.Content.(*domain.FeaturesContent).Features[0].Title = "changed"
	assert.NotEqual(t, "changed", src.Content.(*domain.FeaturesContent).Features[0].Title)
}

func TestBlock_CloneFailsOnUnserializablePayload(t *testing.T) {
	b := domain.Block{
		ID:      "bad",
		Type:    "widget",
		Visible: true,
		Content: &domain.UnknownContent{Kind: "widget", Fields: map[string]any{"ratio": math.NaN()}},
	}
	_, err := b.Clone()
	assert.Error(t, err)
}

func TestBlock_MergeIsShallowAndKeepsIdentity(t *testing.T) {
	b := domain.NewBlock(domain.BlockTypeFeatures, 3)
	id := b.ID

	merged, err := b.Merge(domain.Patch{
		"id":       "hijack",
		"type":     "text",
		"heading":  "New heading",
		"features": []map[string]any{{"id": "f1", "title": "Only"}},
		"visible":  false,
	})
	require.NoError(t, err)

	assert.Equal(t, id, merged.ID)
	assert.Equal(t, domain.BlockTypeFeatures, merged.Type)
	assert.False(t, merged.Visible)
	fc := merged.Content.(*domain.FeaturesContent)
	assert.Equal(t, "New heading", fc.Heading)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Only", fc.Features[0].Title)

	// source untouched
	assert.Len(t, b.Content.(*domain.FeaturesContent).Features, 3)
}

func TestBlock_MergeRejectsWrongShape(t *testing.T) {
	b := domain.NewBlock(domain.BlockTypeText, 1)
	out, err := b.Merge(domain.Patch{"heading": []int{1, 2}})
	assert.Error(t, err)
	assert.Equal(t, b, out)
}

func TestProductDescription_IndexOfAndClone(t *testing.T) {
	d := domain.NewProductDescription("Demo", fixedNow)
	d.Blocks = append(d.Blocks, domain.NewBlock(domain.BlockTypeHero, 1), domain.NewBlock(domain.BlockTypeFAQ, 1))

	assert.Equal(t, 1, d.IndexOf(d.Blocks[1].ID))
	assert.Equal(t, -1, d.IndexOf("missing"))

	c, err := d.Clone()
	require.NoError(t, err)
	c.Blocks[1].Content.(*domain.FAQContent).Items[0].Answer = "changed"
	assert.NotEqual(t, "changed", d.Blocks[1].Content.(*domain.FAQContent).Items[0].Answer)
}
