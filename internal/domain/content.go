package domain

import "encoding/json"

// Content is the type-specific payload of a Block. The set of
// implementations is closed; switch on the concrete type to dispatch.
type Content interface {
	blockType() BlockType
}

type HeroContent struct {
	Heading         string `json:"heading"`
	Subheading      string `json:"subheading"`
	BackgroundImage string `json:"backgroundImage"`
	ButtonText      string `json:"buttonText"`
	ButtonURL       string `json:"buttonUrl"`
	Alignment       string `json:"alignment"`
}

type TextContent struct {
	Heading string `json:"heading"`
	Content string `json:"content"` // HTML
}

// Item is an entry of a features or benefits list.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type FeaturesContent struct {
	Heading  string `json:"heading"`
	Features []Item `json:"features"`
}

type BenefitsContent struct {
	Heading  string `json:"heading"`
	Benefits []Item `json:"benefits"`
}

type Spec struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type SpecificationsContent struct {
	Heading string `json:"heading"`
	Specs   []Spec `json:"specs"`
}

type ImageContent struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type GalleryImage struct {
	ID      string `json:"id"`
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type GalleryContent struct {
	Heading string         `json:"heading"`
	Images  []GalleryImage `json:"images"`
}

// MediaTextContent backs both imageText (image first) and textImage
// (text first) blocks.
type MediaTextContent struct {
	Heading  string `json:"heading"`
	Content  string `json:"content"` // HTML
	Image    string `json:"image"`
	ImageAlt string `json:"imageAlt"`
}

type FAQItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQContent struct {
	Heading string    `json:"heading"`
	Items   []FAQItem `json:"items"`
}

type CTAContent struct {
	Heading         string `json:"heading"`
	Description     string `json:"description"`
	ButtonText      string `json:"buttonText"`
	ButtonURL       string `json:"buttonUrl"`
	BackgroundColor string `json:"backgroundColor"`
}

type VideoContent struct {
	Heading string `json:"heading"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// UnknownContent keeps the raw payload of a block whose type this
// version does not know, so it survives load/save unchanged.
type UnknownContent struct {
	Kind   BlockType
	Fields map[string]any
}

func (c *UnknownContent) MarshalJSON() ([]byte, error) {
	if c.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.Fields)
}

func (*HeroContent) blockType() BlockType           { return BlockTypeHero }
func (*TextContent) blockType() BlockType           { return BlockTypeText }
func (*FeaturesContent) blockType() BlockType       { return BlockTypeFeatures }
func (*BenefitsContent) blockType() BlockType       { return BlockTypeBenefits }
func (*SpecificationsContent) blockType() BlockType { return BlockTypeSpecifications }
func (*ImageContent) blockType() BlockType          { return BlockTypeImage }
func (*GalleryContent) blockType() BlockType        { return BlockTypeGallery }
func (*MediaTextContent) blockType() BlockType      { return BlockTypeImageText }
func (*FAQContent) blockType() BlockType            { return BlockTypeFAQ }
func (*CTAContent) blockType() BlockType            { return BlockTypeCTA }
func (*VideoContent) blockType() BlockType          { return BlockTypeVideo }
func (c *UnknownContent) blockType() BlockType      { return c.Kind }

// newContent returns an empty payload for t, or nil if t is unknown.
func newContent(t BlockType) Content {
	switch t {
	case BlockTypeHero:
		return &HeroContent{}
	case BlockTypeText:
		return &TextContent{}
	case BlockTypeFeatures:
		return &FeaturesContent{}
	case BlockTypeBenefits:
		return &BenefitsContent{}
	case BlockTypeSpecifications:
		return &SpecificationsContent{}
	case BlockTypeImage:
		return &ImageContent{}
	case BlockTypeGallery:
		return &GalleryContent{}
	case BlockTypeImageText, BlockTypeTextImage:
		return &MediaTextContent{}
	case BlockTypeFAQ:
		return &FAQContent{}
	case BlockTypeCTA:
		return &CTAContent{}
	case BlockTypeVideo:
		return &VideoContent{}
	}
	return nil
}
