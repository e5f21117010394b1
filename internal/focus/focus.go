// Package focus keeps the preview scrolled to the selected block.
package focus

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// DefaultHighlight is how long a focused block stays highlighted.
const DefaultHighlight = 2 * time.Second

// Locate reports whether rendered contains an element tagged with
// data-block-id equal to id.
func Locate(rendered, id string) bool {
	if id == "" || rendered == "" {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(rendered))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			if _, hasAttr := z.TagName(); !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "data-block-id" && string(val) == id {
					return true
				}
				if !more {
					break
				}
			}
		}
	}
}

// Focus asks a view to scroll a block into view and highlight it.
type Focus struct {
	BlockID     string `json:"blockId"`
	Behavior    string `json:"behavior"`
	Block       string `json:"block"`
	HighlightMs int64  `json:"highlightMs"`
}

// Sink receives presentation commands. Implementations must not block.
type Sink interface {
	Focus(ctx context.Context, f Focus)
	Unhighlight(ctx context.Context, blockID string)
}

// Syncer re-runs focus whenever the selection or the rendered output
// changes. It never touches document state.
type Syncer struct {
	sink      Sink
	highlight time.Duration
	logger    *zap.Logger
	afterFunc func(time.Duration, func()) Timer

	mu          sync.Mutex
	lastID      string
	lastHTML    string
	highlighted string
	timer       Timer
	// gen identifies the latest scheduled removal; older callbacks that
	// fire late are ignored.
	gen uint64
}

// Timer is the part of *time.Timer the Syncer uses.
type Timer interface{ Stop() bool }

type Option func(*Syncer)

// WithHighlight overrides DefaultHighlight.
func WithHighlight(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.highlight = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Syncer) { s.logger = logger }
}

// WithAfterFunc replaces time.AfterFunc, for tests.
func WithAfterFunc(f func(time.Duration, func()) Timer) Option {
	return func(s *Syncer) { s.afterFunc = f }
}

func NewSyncer(sink Sink, opts ...Option) *Syncer {
	s := &Syncer{
		sink:      sink,
		highlight: DefaultHighlight,
		logger:    zap.NewNop(),
		afterFunc: func(d time.Duration, fn func()) Timer { return time.AfterFunc(d, fn) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync focuses selectedID in rendered when either changed since the last
// call. A missing block or an empty selection is a no-op. It reports
// whether a focus command was sent.
func (s *Syncer) Sync(ctx context.Context, selectedID, rendered string) bool {
	s.mu.Lock()
	if selectedID == s.lastID && rendered == s.lastHTML {
		s.mu.Unlock()
		return false
	}
	s.lastID, s.lastHTML = selectedID, rendered
	if !Locate(rendered, selectedID) {
		s.mu.Unlock()
		return false
	}
	// a re-run replaces the pending removal; a different block loses its
	// highlight right away
	if s.timer != nil {
		s.timer.Stop()
	}
	var previous string
	if s.highlighted != "" && s.highlighted != selectedID {
		previous = s.highlighted
	}
	s.highlighted = selectedID
	s.gen++
	gen := s.gen
	s.timer = s.afterFunc(s.highlight, func() { s.expire(selectedID, gen) })
	s.mu.Unlock()

	if previous != "" {
		s.sink.Unhighlight(ctx, previous)
	}
	s.logger.Debug("focus block", zap.String("blockId", selectedID))
	s.sink.Focus(ctx, Focus{
		BlockID:     selectedID,
		Behavior:    "smooth",
		Block:       "center",
		HighlightMs: s.highlight.Milliseconds(),
	})
	return true
}

func (s *Syncer) expire(blockID string, gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.highlighted = ""
	s.timer = nil
	s.mu.Unlock()
	s.sink.Unhighlight(context.Background(), blockID)
}

// Stop cancels a pending highlight removal.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
