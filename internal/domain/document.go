package domain

import (
	"context"
	"fmt"
	"time"
)

// ProductDescription is a document: an ordered list of blocks.
// Block order is render order.
type ProductDescription struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Blocks    []Block   `json:"blocks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProductDescription returns an empty document stamped with now.
func NewProductDescription(name string, now time.Time) ProductDescription {
	return ProductDescription{
		ID:        NewID(),
		Name:      name,
		Blocks:    []Block{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IndexOf returns the position of the block with the given id, or -1.
func (d *ProductDescription) IndexOf(id string) int {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of d.
func (d ProductDescription) Clone() (ProductDescription, error) {
	out := d
	out.Blocks = make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		c, err := b.Clone()
		if err != nil {
			return ProductDescription{}, fmt.Errorf("clone document %s: %w", d.ID, err)
		}
		out.Blocks[i] = c
	}
	return out, nil
}

// Template is a reusable blueprint. Its blocks are never bound to a
// live document.
type Template struct {
	ID          string  `json:"id" yaml:"id" validate:"required"`
	Name        string  `json:"name" yaml:"name" validate:"required"`
	Category    string  `json:"category" yaml:"category" validate:"required"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Blocks      []Block `json:"blocks" yaml:"-"`
}

// DocumentSummary is a listing row for stored documents.
type DocumentSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	BlockCount int       `json:"blockCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type DocumentRepository interface {
	SaveDocument(ctx context.Context, d *ProductDescription) error
	GetDocument(ctx context.Context, id string) (*ProductDescription, error)
	ListDocuments(ctx context.Context) ([]DocumentSummary, error)
	DeleteDocument(ctx context.Context, id string) error
	DocumentUpdatedAt(ctx context.Context, id string) (time.Time, error)
}

type TemplateRepository interface {
	SaveTemplate(ctx context.Context, t *Template) error
	ListTemplates(ctx context.Context) ([]Template, error)
	DeleteTemplate(ctx context.Context, id string) error
}
