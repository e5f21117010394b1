// Package analyzer reports on the heading structure and content of a
// product description.
package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"

	"productdesc/internal/domain"
)

// thinContentWords is the word count below which a description is
// reported as thin.
const thinContentWords = 300

type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Report is the result of Analyze. A document without blocks yields the
// zero Report.
type Report struct {
	Headings           []Heading `json:"headings" yaml:"headings"`
	HasValidH1         bool      `json:"hasValidH1" yaml:"hasValidH1"`
	H1Count            int       `json:"h1Count" yaml:"h1Count"`
	HasProperHierarchy bool      `json:"hasProperHierarchy" yaml:"hasProperHierarchy"`
	TopKeywords        []string  `json:"topKeywords" yaml:"topKeywords"`

	WordCount      int     `json:"wordCount" yaml:"wordCount"`
	CharacterCount int     `json:"characterCount" yaml:"characterCount"`
	BlockDiversity int     `json:"blockDiversity" yaml:"blockDiversity"`
	SectionCount   int     `json:"sectionCount" yaml:"sectionCount"`
	ContentDensity float64 `json:"contentDensity" yaml:"contentDensity"`

	ImageCount   int  `json:"imageCount" yaml:"imageCount"`
	GalleryCount int  `json:"galleryCount" yaml:"galleryCount"`
	VideoCount   int  `json:"videoCount" yaml:"videoCount"`
	HasImages    bool `json:"hasImages" yaml:"hasImages"`
	HasGallery   bool `json:"hasGallery" yaml:"hasGallery"`
	HasVideo     bool `json:"hasVideo" yaml:"hasVideo"`

	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Analyze inspects every block of doc, visible or not.
func Analyze(doc domain.ProductDescription) Report {
	var r Report
	if len(doc.Blocks) == 0 {
		return r
	}

	kinds := map[domain.BlockType]struct{}{}
	for _, b := range doc.Blocks {
		kinds[b.Type] = struct{}{}
		r.Headings = append(r.Headings, blockHeadings(b)...)

		for _, t := range blockText(b) {
			r.WordCount += len(strings.Fields(t))
			r.CharacterCount += utf8.RuneCountInString(t)
		}

		switch b.Type {
		case domain.BlockTypeHero, domain.BlockTypeFeatures, domain.BlockTypeBenefits, domain.BlockTypeSpecifications:
			r.SectionCount++
		case domain.BlockTypeImage:
			r.ImageCount++
		case domain.BlockTypeGallery:
			r.GalleryCount++
		case domain.BlockTypeVideo:
			r.VideoCount++
		}
	}

	for _, h := range r.Headings {
		if h.Level == 1 {
			r.H1Count++
		}
	}
	r.HasValidH1 = r.H1Count > 0
	r.HasProperHierarchy = properHierarchy(r.Headings)
	r.TopKeywords = topKeywords(r.Headings, 5)

	r.BlockDiversity = len(kinds)
	r.HasImages = r.ImageCount > 0
	r.HasGallery = r.GalleryCount > 0
	r.HasVideo = r.VideoCount > 0

	if r.SectionCount > 0 {
		r.ContentDensity = float64(r.CharacterCount) / float64(r.SectionCount)
	} else {
		r.ContentDensity = float64(r.CharacterCount)
	}

	r.Recommendations = recommend(r)
	return r
}

// properHierarchy fails when a heading is more than one level deeper than
// the one before it. Going back up any number of levels is fine.
func properHierarchy(hs []Heading) bool {
	for i := 1; i < len(hs); i++ {
		if hs[i].Level-hs[i-1].Level > 1 {
			return false
		}
	}
	return true
}

// blockHeadings returns the structural heading implied by the block kind
// followed by headings found in its HTML content.
func blockHeadings(b domain.Block) []Heading {
	var out []Heading
	add := func(level int, text string) {
		if text = normalize(text); text != "" {
			out = append(out, Heading{Level: level, Text: text})
		}
	}
	switch c := b.Content.(type) {
	case *domain.HeroContent:
		add(1, c.Heading)
	case *domain.FeaturesContent:
		add(2, c.Heading)
	case *domain.BenefitsContent:
		add(2, c.Heading)
	case *domain.TextContent:
		out = append(out, htmlHeadings(c.Content)...)
	case *domain.MediaTextContent:
		out = append(out, htmlHeadings(c.Content)...)
	}
	return out
}

// htmlHeadings extracts <h1>..<h6> elements in document order.
func htmlHeadings(s string) []Heading {
	if s == "" {
		return nil
	}
	var (
		out   []Heading
		level int
		text  strings.Builder
	)
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken:
			if l := headingLevel(z); l > 0 && level == 0 {
				level = l
				text.Reset()
			}
		case html.EndTagToken:
			if l := headingLevel(z); l > 0 && l == level {
				if t := normalize(text.String()); t != "" {
					out = append(out, Heading{Level: level, Text: t})
				}
				level = 0
			}
		case html.TextToken:
			if level > 0 {
				text.Write(z.Text())
				text.WriteByte(' ')
			}
		}
	}
}

func headingLevel(z *html.Tokenizer) int {
	name, _ := z.TagName()
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

// stripTags returns the text content of an HTML fragment.
func stripTags(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// blockText returns the reader-visible text of text-bearing blocks.
func blockText(b domain.Block) []string {
	var parts []string
	add := func(ss ...string) {
		for _, s := range ss {
			if s = normalize(s); s != "" {
				parts = append(parts, s)
			}
		}
	}
	switch c := b.Content.(type) {
	case *domain.HeroContent:
		add(c.Heading, c.Subheading)
	case *domain.TextContent:
		add(c.Heading, stripTags(c.Content))
	case *domain.FeaturesContent:
		add(c.Heading)
		for _, it := range c.Features {
			add(it.Title, it.Description)
		}
	case *domain.BenefitsContent:
		add(c.Heading)
		for _, it := range c.Benefits {
			add(it.Title, it.Description)
		}
	case *domain.SpecificationsContent:
		add(c.Heading)
		for _, s := range c.Specs {
			add(s.Name, s.Value)
		}
	case *domain.MediaTextContent:
		add(c.Heading, stripTags(c.Content))
	case *domain.FAQContent:
		add(c.Heading)
		for _, it := range c.Items {
			add(it.Question, it.Answer)
		}
	case *domain.CTAContent:
		add(c.Heading, c.Description)
	}
	return parts
}

// topKeywords counts case-folded words longer than three letters across
// heading text. Ties keep first-occurrence order.
func topKeywords(hs []Heading, n int) []string {
	fold := cases.Fold()
	counts := map[string]int{}
	var order []string
	for _, h := range hs {
		words := strings.FieldsFunc(h.Text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, w := range words {
			w = fold.String(w)
			if utf8.RuneCountInString(w) <= 3 {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func recommend(r Report) []string {
	var out []string
	switch {
	case r.H1Count == 0:
		out = append(out, "Add a main heading (H1), for example with a hero block.")
	case r.H1Count > 1:
		out = append(out, fmt.Sprintf("Use a single H1; found %d.", r.H1Count))
	}
	if !r.HasProperHierarchy {
		out = append(out, "Do not skip heading levels (e.g. H1 followed by H3).")
	}
	if !r.HasImages && !r.HasGallery && !r.HasVideo {
		out = append(out, "Add an image, gallery or video block.")
	}
	if r.WordCount < thinContentWords {
		out = append(out, fmt.Sprintf("Content is thin: %d words, aim for at least %d.", r.WordCount, thinContentWords))
	}
	return out
}
