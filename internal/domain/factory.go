package domain

// defaultColumns is the layout hint used when NewBlock gets columns <= 0.
var defaultColumns = map[BlockType]int{
	BlockTypeFeatures: 3,
	BlockTypeBenefits: 2,
	BlockTypeGallery:  3,
	BlockTypeFAQ:      1,
}

// NewBlock returns a fully defaulted block of type t with a fresh id.
// Unsupported types fall back to a text block.
func NewBlock(t BlockType, columns int) Block {
	if !t.Supported() {
		t = BlockTypeText
	}
	if columns <= 0 {
		columns = defaultColumns[t]
		if columns == 0 {
			columns = 1
		}
	}
	return Block{
		ID:      NewID(),
		Type:    t,
		Title:   defaultTitle(t),
		Columns: columns,
		Visible: true,
		Content: defaultContent(t),
	}
}

func defaultTitle(t BlockType) string {
	switch t {
	case BlockTypeHero:
		return "Hero"
	case BlockTypeText:
		return "Text"
	case BlockTypeFeatures:
		return "Features"
	case BlockTypeBenefits:
		return "Benefits"
	case BlockTypeSpecifications:
		return "Specifications"
	case BlockTypeImage:
		return "Image"
	case BlockTypeGallery:
		return "Gallery"
	case BlockTypeImageText:
		return "Image + text"
	case BlockTypeTextImage:
		return "Text + image"
	case BlockTypeFAQ:
		return "FAQ"
	case BlockTypeCTA:
		return "Call to action"
	case BlockTypeVideo:
		return "Video"
	}
	return string(t)
}

func defaultContent(t BlockType) Content {
	switch t {
	case BlockTypeHero:
		return &HeroContent{
			Heading:    "Product name",
			Subheading: "A short sentence that sells the product",
			ButtonText: "Buy now",
			ButtonURL:  "#",
			Alignment:  "center",
		}
	case BlockTypeText:
		return &TextContent{
			Heading: "About the product",
			Content: "<p>Describe what makes this product worth buying.</p>",
		}
	case BlockTypeFeatures:
		return &FeaturesContent{
			Heading: "Key features",
			Features: []Item{
				{ID: NewID(), Title: "Feature one", Description: "What it does and why it matters.", Icon: "★"},
				{ID: NewID(), Title: "Feature two", Description: "What it does and why it matters.", Icon: "⚡"},
				{ID: NewID(), Title: "Feature three", Description: "What it does and why it matters.", Icon: "✔"},
			},
		}
	case BlockTypeBenefits:
		return &BenefitsContent{
			Heading: "Why you will love it",
			Benefits: []Item{
				{ID: NewID(), Title: "Saves time", Description: "Explain the benefit for the buyer.", Icon: "⏱"},
				{ID: NewID(), Title: "Built to last", Description: "Explain the benefit for the buyer.", Icon: "🛡"},
			},
		}
	case BlockTypeSpecifications:
		return &SpecificationsContent{
			Heading: "Specifications",
			Specs: []Spec{
				{ID: NewID(), Name: "Dimensions", Value: "10 × 10 × 10 cm"},
				{ID: NewID(), Name: "Weight", Value: "500 g"},
				{ID: NewID(), Name: "Material", Value: "Aluminium"},
			},
		}
	case BlockTypeImage:
		return &ImageContent{
			Src: "https://placehold.co/800x450",
			Alt: "Product image",
		}
	case BlockTypeGallery:
		return &GalleryContent{
			Heading: "Gallery",
			Images: []GalleryImage{
				{ID: NewID(), Src: "https://placehold.co/400x400", Alt: "Product photo 1"},
				{ID: NewID(), Src: "https://placehold.co/400x400", Alt: "Product photo 2"},
				{ID: NewID(), Src: "https://placehold.co/400x400", Alt: "Product photo 3"},
			},
		}
	case BlockTypeImageText, BlockTypeTextImage:
		return &MediaTextContent{
			Heading:  "Designed for everyday use",
			Content:  "<p>Pair a photo with a short story about the product.</p>",
			Image:    "https://placehold.co/600x400",
			ImageAlt: "Product in use",
		}
	case BlockTypeFAQ:
		return &FAQContent{
			Heading: "Frequently asked questions",
			Items: []FAQItem{
				{ID: NewID(), Question: "How long is the warranty?", Answer: "Two years from the date of purchase."},
				{ID: NewID(), Question: "Can I return it?", Answer: "Yes, within 30 days."},
			},
		}
	case BlockTypeCTA:
		return &CTAContent{
			Heading:         "Ready to order?",
			Description:     "Get yours today with free shipping.",
			ButtonText:      "Add to cart",
			ButtonURL:       "#",
			BackgroundColor: "#1f2937",
		}
	case BlockTypeVideo:
		return &VideoContent{
			Heading: "See it in action",
		}
	}
	return &TextContent{}
}
