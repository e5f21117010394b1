package service

import (
	"errors"
	"fmt"
	"time"

	"productdesc/internal/domain"
)

// ErrMalformedTemplate is returned when a blueprint block cannot be
// deep-copied. Instantiation is all-or-nothing.
var ErrMalformedTemplate = errors.New("malformed template")

// TemplateEngine clones template blueprints into documents.
type TemplateEngine struct {
	now   func() time.Time
	newID func() string
}

type EngineOption func(*TemplateEngine)

func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *TemplateEngine) { e.now = now }
}

// WithIDGenerator overrides domain.NewID for instantiated blocks.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *TemplateEngine) { e.newID = newID }
}

func NewTemplateEngine(opts ...EngineOption) *TemplateEngine {
	e := &TemplateEngine{now: time.Now, newID: domain.NewID}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Instantiate returns doc with its blocks replaced by deep copies of the
// template's blueprint blocks, each under a fresh id. tpl is never
// modified. On error the returned document is doc itself, unchanged.
func (e *TemplateEngine) Instantiate(tpl domain.Template, doc domain.ProductDescription) (domain.ProductDescription, error) {
	blocks := make([]domain.Block, 0, len(tpl.Blocks))
	for i, bp := range tpl.Blocks {
		b, err := bp.Clone()
		if err != nil {
			return doc, fmt.Errorf("%w: %s block %d: %v", ErrMalformedTemplate, tpl.ID, i, err)
		}
		b.ID = e.newID()
		blocks = append(blocks, b)
	}

	out := doc
	out.Blocks = blocks
	out.UpdatedAt = e.now()
	return out, nil
}
