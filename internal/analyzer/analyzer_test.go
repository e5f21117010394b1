package analyzer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"productdesc/internal/domain"
)

func doc(blocks ...domain.Block) domain.ProductDescription {
	d := domain.NewProductDescription("Doc", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	d.Blocks = blocks
	return d
}

func block(t domain.BlockType, c domain.Content) domain.Block {
	return domain.Block{ID: string(t), Type: t, Columns: 1, Visible: true, Content: c}
}

func TestAnalyze_Empty(t *testing.T) {
	assert.Equal(t, Report{}, Analyze(doc()))
}

func TestAnalyze_HeroOnly(t *testing.T) {
	r := Analyze(doc(block(domain.BlockTypeHero, &domain.HeroContent{Heading: "X"})))

	if diff := cmp.Diff([]Heading{{Level: 1, Text: "X"}}, r.Headings); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, r.HasValidH1)
	assert.Equal(t, 1, r.H1Count)
	assert.True(t, r.HasProperHierarchy)
	assert.Equal(t, 1, r.SectionCount)
	assert.Equal(t, 1, r.BlockDiversity)
	assert.Equal(t, 1, r.WordCount)
	assert.Equal(t, 1, r.CharacterCount)
	assert.Equal(t, 1.0, r.ContentDensity)
}

func TestAnalyze_SkippedLevel(t *testing.T) {
	r := Analyze(doc(block(domain.BlockTypeText, &domain.TextContent{Content: "<h1>Title</h1><p>x</p><h3>Deep</h3>"})))

	assert.Equal(t, []Heading{{1, "Title"}, {3, "Deep"}}, r.Headings)
	assert.False(t, r.HasProperHierarchy)
	assert.Contains(t, r.Recommendations, "Do not skip heading levels (e.g. H1 followed by H3).")
}

func TestAnalyze_GoingUpIsFine(t *testing.T) {
	r := Analyze(doc(
		block(domain.BlockTypeHero, &domain.HeroContent{Heading: "Top"}),
		block(domain.BlockTypeFeatures, &domain.FeaturesContent{Heading: "Features"}),
		block(domain.BlockTypeText, &domain.TextContent{Content: "<h3>Detail</h3><h1>Again</h1>"}),
	))
	assert.True(t, r.HasProperHierarchy)
	assert.Equal(t, 2, r.H1Count)
	assert.Contains(t, r.Recommendations, "Use a single H1; found 2.")
}

func TestAnalyze_NoHeadings(t *testing.T) {
	r := Analyze(doc(block(domain.BlockTypeCTA, &domain.CTAContent{Heading: "Buy", Description: "Now or never"})))
	assert.Empty(t, r.Headings)
	assert.False(t, r.HasValidH1)
	assert.True(t, r.HasProperHierarchy)
	assert.Equal(t, 4, r.WordCount)
	assert.Equal(t, 0, r.SectionCount)
	assert.Equal(t, float64(r.CharacterCount), r.ContentDensity)
}

func TestAnalyze_Keywords(t *testing.T) {
	r := Analyze(doc(
		block(domain.BlockTypeHero, &domain.HeroContent{Heading: "Wireless Headphones"}),
		block(domain.BlockTypeFeatures, &domain.FeaturesContent{Heading: "Why these headphones"}),
		block(domain.BlockTypeBenefits, &domain.BenefitsContent{Heading: "Wireless freedom, big sound"}),
		block(domain.BlockTypeText, &domain.TextContent{Content: "<h2>HEADPHONES care</h2>"}),
	))
	assert.Equal(t, []string{"headphones", "wireless", "these", "freedom", "sound"}, r.TopKeywords)
}

func TestAnalyze_MediaAndDiversity(t *testing.T) {
	hidden := block(domain.BlockTypeVideo, &domain.VideoContent{URL: "https://youtu.be/x"})
	hidden.Visible = false
	r := Analyze(doc(
		block(domain.BlockTypeImage, &domain.ImageContent{Src: "a.jpg"}),
		block(domain.BlockTypeImage, &domain.ImageContent{Src: "b.jpg"}),
		block(domain.BlockTypeGallery, &domain.GalleryContent{}),
		hidden,
	))
	assert.Equal(t, 2, r.ImageCount)
	assert.Equal(t, 1, r.GalleryCount)
	assert.Equal(t, 1, r.VideoCount)
	assert.True(t, r.HasImages && r.HasGallery && r.HasVideo)
	assert.Equal(t, 3, r.BlockDiversity)
	assert.NotContains(t, r.Recommendations, "Add an image, gallery or video block.")
}

func TestAnalyze_ContentDensity(t *testing.T) {
	r := Analyze(doc(
		block(domain.BlockTypeHero, &domain.HeroContent{Heading: "abcd"}),
		block(domain.BlockTypeSpecifications, &domain.SpecificationsContent{Specs: []domain.Spec{{Name: "ab", Value: "cd"}}}),
	))
	assert.Equal(t, 8, r.CharacterCount)
	assert.Equal(t, 2, r.SectionCount)
	assert.Equal(t, 4.0, r.ContentDensity)
}
