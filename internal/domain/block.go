package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type BlockType string

const (
	BlockTypeHero           BlockType = "hero"
	BlockTypeText           BlockType = "text"
	BlockTypeFeatures       BlockType = "features"
	BlockTypeBenefits       BlockType = "benefits"
	BlockTypeSpecifications BlockType = "specifications"
	BlockTypeImage          BlockType = "image"
	BlockTypeGallery        BlockType = "gallery"
	BlockTypeImageText      BlockType = "imageText"
	BlockTypeTextImage      BlockType = "textImage"
	BlockTypeFAQ            BlockType = "faq"
	BlockTypeCTA            BlockType = "cta"
	BlockTypeVideo          BlockType = "video"
)

// BlockTypes lists every supported block type in palette order.
var BlockTypes = []BlockType{
	BlockTypeHero,
	BlockTypeText,
	BlockTypeFeatures,
	BlockTypeBenefits,
	BlockTypeSpecifications,
	BlockTypeImage,
	BlockTypeGallery,
	BlockTypeImageText,
	BlockTypeTextImage,
	BlockTypeFAQ,
	BlockTypeCTA,
	BlockTypeVideo,
}

// Supported reports whether t has a concrete payload type.
func (t BlockType) Supported() bool {
	return newContent(t) != nil
}

// NewID returns a fresh block or document identifier.
func NewID() string {
	return uuid.New().String()
}

// Block is one typed content unit of a product description.
// Type selects the concrete Content; the two always agree.
type Block struct {
	ID      string
	Type    BlockType
	Title   string // author-facing label, never rendered
	Columns int
	Visible bool
	Content Content
}

// Patch is a partial block update: top-level JSON keys to overwrite.
type Patch map[string]any

// baseKeys are the JSON keys owned by Block rather than its Content.
var baseKeys = []string{"id", "type", "title", "columns", "visible"}

func (b Block) MarshalJSON() ([]byte, error) {
	fields := map[string]any{}
	if b.Content != nil {
		raw, err := json.Marshal(b.Content)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", b.Type, err)
		}
		if err := decodeNumbers(raw, &fields); err != nil {
			return nil, fmt.Errorf("flatten %s payload: %w", b.Type, err)
		}
	}
	fields["id"] = b.ID
	fields["type"] = b.Type
	fields["title"] = b.Title
	fields["columns"] = b.Columns
	fields["visible"] = b.Visible
	return json.Marshal(fields)
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var base struct {
		ID      string    `json:"id"`
		Type    BlockType `json:"type"`
		Title   string    `json:"title"`
		Columns int       `json:"columns"`
		Visible *bool     `json:"visible"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	content := newContent(base.Type)
	if content != nil {
		if err := json.Unmarshal(data, content); err != nil {
			return fmt.Errorf("decode %s payload: %w", base.Type, err)
		}
	} else {
		fields := map[string]any{}
		if err := decodeNumbers(data, &fields); err != nil {
			return err
		}
		for _, k := range baseKeys {
			delete(fields, k)
		}
		content = &UnknownContent{Kind: base.Type, Fields: fields}
	}

	*b = Block{
		ID:      base.ID,
		Type:    base.Type,
		Title:   base.Title,
		Columns: base.Columns,
		Visible: base.Visible == nil || *base.Visible,
		Content: content,
	}
	return nil
}

// Clone returns a deep copy of b. Nested item slices are copied by value
// through the JSON form, so a failure means the payload is not serializable.
func (b Block) Clone() (Block, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return Block{}, fmt.Errorf("clone block %s: %w", b.ID, err)
	}
	var out Block
	if err := json.Unmarshal(raw, &out); err != nil {
		return Block{}, fmt.Errorf("clone block %s: %w", b.ID, err)
	}
	return out, nil
}

// Merge shallow-merges patch into a copy of b. The id and type keys of the
// patch are ignored. On error b is returned unchanged.
func (b Block) Merge(patch Patch) (Block, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return b, fmt.Errorf("merge block %s: %w", b.ID, err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return b, fmt.Errorf("merge block %s: %w", b.ID, err)
	}
	for k, v := range patch {
		if k == "id" || k == "type" {
			continue
		}
		enc, err := json.Marshal(v)
		if err != nil {
			return b, fmt.Errorf("merge block %s: field %q: %w", b.ID, k, err)
		}
		fields[k] = enc
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return b, fmt.Errorf("merge block %s: %w", b.ID, err)
	}
	var out Block
	if err := json.Unmarshal(merged, &out); err != nil {
		return b, fmt.Errorf("merge block %s: %w", b.ID, err)
	}
	return out, nil
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
