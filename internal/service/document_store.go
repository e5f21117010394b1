package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"productdesc/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// DocumentStore — the single owner of the in-edit document
// ─────────────────────────────────────────────────────────────

// BlockSpec describes a block to add: the factory defaults for Type,
// overlaid with Fields.
type BlockSpec struct {
	Type    domain.BlockType `json:"type"`
	Columns int              `json:"columns"`
	Fields  domain.Patch     `json:"fields,omitempty"`
}

// ChangeEvent is the payload of every event DocumentStore emits.
// State is a deep snapshot taken right after the change.
type ChangeEvent struct {
	Op      string             `json:"op"`
	BlockID string             `json:"blockId,omitempty"`
	State   domain.EditorState `json:"state"`
}

// DocumentStore owns one edit session. Every mutating call on an active
// document stamps UpdatedAt, including calls that end up changing nothing
// (unknown id, move at an edge). Without an active document mutators are
// no-ops. Calls are serialized, so no caller observes a partial update.
type DocumentStore struct {
	mu         sync.Mutex
	doc        *domain.ProductDescription
	selectedID string

	engine *TemplateEngine
	logger *zap.Logger
	now    func() time.Time

	obsMu     sync.RWMutex
	observers Emitters
}

type StoreOption func(*DocumentStore)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *DocumentStore) { s.now = now }
}

func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *DocumentStore) { s.logger = logger }
}

// WithTemplateEngine sets the engine used by ApplyTemplate.
func WithTemplateEngine(e *TemplateEngine) StoreOption {
	return func(s *DocumentStore) { s.engine = e }
}

// NewDocumentStore creates an empty session with no active document.
func NewDocumentStore(emitter EventEmitter, opts ...StoreOption) *DocumentStore {
	s := &DocumentStore{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	if emitter != nil {
		s.observers = Emitters{emitter}
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = NewTemplateEngine(WithEngineClock(s.now))
	}
	return s
}

// ── Lifecycle ──────────────────────────────────────────────

// CreateDocument starts a new empty document and clears the selection.
func (s *DocumentStore) CreateDocument(name string) domain.ProductDescription {
	s.mu.Lock()
	d := domain.NewProductDescription(name, s.now())
	s.doc = &d
	s.selectedID = ""
	ev := s.eventLocked("create", "")
	s.mu.Unlock()

	s.logger.Debug("document created", zap.String("documentId", d.ID), zap.String("name", name))
	s.emit(EventDocumentLoaded, ev)
	return *ev.State.Document
}

// Load replaces the active document wholesale and clears the selection.
// The store keeps its own deep copy of doc. Blocks with an empty id or an
// id already used by an earlier block get a fresh id, and the document is
// stamped so the repair gets saved.
func (s *DocumentStore) Load(doc domain.ProductDescription) error {
	c, err := doc.Clone()
	if err != nil {
		return err
	}
	if c.Blocks == nil {
		c.Blocks = []domain.Block{}
	}
	reassigned := uniqueBlockIDs(c.Blocks)

	s.mu.Lock()
	if reassigned > 0 {
		c.UpdatedAt = s.now()
		s.logger.Warn("reassigned duplicate block ids",
			zap.String("documentId", c.ID), zap.Int("blocks", reassigned))
	}
	s.doc = &c
	s.selectedID = ""
	ev := s.eventLocked("load", "")
	s.mu.Unlock()

	s.logger.Debug("document loaded", zap.String("documentId", c.ID), zap.Int("blocks", len(c.Blocks)))
	s.emit(EventDocumentLoaded, ev)
	return nil
}

// ApplyTemplate instantiates tpl into the active document, replacing all
// of its blocks. On error the document is left exactly as it was.
func (s *DocumentStore) ApplyTemplate(tpl domain.Template) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil
	}
	next, err := s.engine.Instantiate(tpl, *s.doc)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("template instantiation failed", zap.String("templateId", tpl.ID), zap.Error(err))
		return err
	}
	s.doc = &next
	s.selectedID = ""
	ev := s.eventLocked("applyTemplate", "")
	s.mu.Unlock()

	s.emit(EventDocumentChanged, ev)
	return nil
}

// ── Block mutations ────────────────────────────────────────

// AddBlock appends a new block built from spec and selects it.
// It returns the new block id, or "" when there is no active document.
func (s *DocumentStore) AddBlock(spec BlockSpec) (string, error) {
	b := domain.NewBlock(spec.Type, spec.Columns)
	if len(spec.Fields) > 0 {
		merged, err := b.Merge(spec.Fields)
		if err != nil {
			return "", err
		}
		b = merged
	}

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return "", nil
	}
	s.doc.Blocks = append(s.doc.Blocks, b)
	s.selectedID = b.ID
	s.touchLocked()
	ev := s.eventLocked("add", b.ID)
	s.mu.Unlock()

	s.emit(EventDocumentChanged, ev)
	s.emit(EventSelectionChanged, ev)
	return b.ID, nil
}

// UpdateBlock shallow-merges patch into the block with the given id.
// id and type cannot be changed. An unknown id changes nothing.
func (s *DocumentStore) UpdateBlock(id string, patch domain.Patch) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil
	}
	if i := s.doc.IndexOf(id); i >= 0 {
		merged, err := s.doc.Blocks[i].Merge(patch)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.doc.Blocks[i] = merged
	}
	s.touchLocked()
	ev := s.eventLocked("update", id)
	s.mu.Unlock()

	s.emit(EventDocumentChanged, ev)
	return nil
}

// DuplicateBlock deep-copies the block with the given id, gives the copy
// a fresh id, appends it at the end of the document and selects it.
func (s *DocumentStore) DuplicateBlock(id string) (string, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return "", nil
	}
	var newID string
	if i := s.doc.IndexOf(id); i >= 0 {
		dup, err := s.doc.Blocks[i].Clone()
		if err != nil {
			s.mu.Unlock()
			return "", err
		}
		dup.ID = domain.NewID()
		s.doc.Blocks = append(s.doc.Blocks, dup)
		s.selectedID = dup.ID
		newID = dup.ID
	}
	s.touchLocked()
	ev := s.eventLocked("duplicate", newID)
	s.mu.Unlock()

	s.emit(EventDocumentChanged, ev)
	if newID != "" {
		s.emit(EventSelectionChanged, ev)
	}
	return newID, nil
}

// RemoveBlock deletes the block; a selected block is deselected.
func (s *DocumentStore) RemoveBlock(id string) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return
	}
	deselected := false
	if i := s.doc.IndexOf(id); i >= 0 {
		s.doc.Blocks = append(s.doc.Blocks[:i:i], s.doc.Blocks[i+1:]...)
		if s.selectedID == id {
			s.selectedID = ""
			deselected = true
		}
	}
	s.touchLocked()
	ev := s.eventLocked("remove", id)
	s.mu.Unlock()

	s.emit(EventDocumentChanged, ev)
	if deselected {
		s.emit(EventSelectionChanged, ev)
	}
}

// MoveUp swaps the block with its predecessor.
func (s *DocumentStore) MoveUp(id string) { s.move(id, -1) }

// MoveDown swaps the block with its successor.
func (s *DocumentStore) MoveDown(id string) { s.move(id, 1) }

func (s *DocumentStore) move(id string, delta int) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return
	}
	i := s.doc.IndexOf(id)
	if j := i + delta; i >= 0 && j >= 0 && j < len(s.doc.Blocks) {
		s.doc.Blocks[i], s.doc.Blocks[j] = s.doc.Blocks[j], s.doc.Blocks[i]
	}
	s.touchLocked()
	op := "moveDown"
	if delta < 0 {
		op = "moveUp"
	}
	ev := s.eventLocked(op, id)
	s.mu.Unlock()

	s.emit(EventDocumentChanged, ev)
}

// Reorder removes the block at from and reinserts it at to. Indices out
// of range change nothing.
func (s *DocumentStore) Reorder(from, to int) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return
	}
	n := len(s.doc.Blocks)
	var movedID string
	if from >= 0 && from < n && to >= 0 && to < n && from != to {
		moved := s.doc.Blocks[from]
		movedID = moved.ID
		rest := append(s.doc.Blocks[:from:from], s.doc.Blocks[from+1:]...)
		out := make([]domain.Block, 0, n)
		out = append(out, rest[:to]...)
		out = append(out, moved)
		out = append(out, rest[to:]...)
		s.doc.Blocks = out
	}
	s.touchLocked()
	ev := s.eventLocked("reorder", movedID)
	s.mu.Unlock()

	s.emit(EventDocumentChanged, ev)
}

// Select sets the focused block; "" clears the selection. It does not
// touch the document content or UpdatedAt.
func (s *DocumentStore) Select(id string) {
	s.mu.Lock()
	if s.doc == nil || s.selectedID == id {
		s.mu.Unlock()
		return
	}
	s.selectedID = id
	ev := s.eventLocked("select", id)
	s.mu.Unlock()

	s.emit(EventSelectionChanged, ev)
}

// ── Queries ────────────────────────────────────────────────

// Document returns a deep copy of the active document.
func (s *DocumentStore) Document() (domain.ProductDescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return domain.ProductDescription{}, false
	}
	return *s.snapshotLocked(), true
}

// SelectedID returns the focused block id, or "".
func (s *DocumentStore) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// State returns a snapshot of the whole session.
func (s *DocumentStore) State() domain.EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Block returns a copy of the block with the given id.
func (s *DocumentStore) Block(id string) (domain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return domain.Block{}, false
	}
	i := s.doc.IndexOf(id)
	if i < 0 {
		return domain.Block{}, false
	}
	b, err := s.doc.Blocks[i].Clone()
	if err != nil {
		return s.doc.Blocks[i], true
	}
	return b, true
}

// ── helpers ────────────────────────────────────────────────

func (s *DocumentStore) touchLocked() {
	s.doc.UpdatedAt = s.now()
}

func (s *DocumentStore) snapshotLocked() *domain.ProductDescription {
	c, err := s.doc.Clone()
	if err != nil {
		// Load and Merge only admit serializable payloads, so this is a
		// store integrity failure; hand out a shallow copy instead.
		s.logger.Error("snapshot document", zap.String("documentId", s.doc.ID), zap.Error(err))
		c = *s.doc
		c.Blocks = append([]domain.Block(nil), s.doc.Blocks...)
	}
	return &c
}

func (s *DocumentStore) stateLocked() domain.EditorState {
	st := domain.EditorState{SelectedID: s.selectedID}
	if s.doc != nil {
		st.Document = s.snapshotLocked()
	}
	return st
}

func (s *DocumentStore) eventLocked(op, blockID string) ChangeEvent {
	return ChangeEvent{Op: op, BlockID: blockID, State: s.stateLocked()}
}

// Subscribe adds an observer that receives every later event.
func (s *DocumentStore) Subscribe(e EventEmitter) {
	s.obsMu.Lock()
	s.observers = append(s.observers[:len(s.observers):len(s.observers)], e)
	s.obsMu.Unlock()
}

func (s *DocumentStore) emit(event string, ev ChangeEvent) {
	s.obsMu.RLock()
	observers := s.observers
	s.obsMu.RUnlock()
	observers.Emit(context.Background(), event, ev)
}

// uniqueBlockIDs gives every block whose id is empty or already taken a
// fresh id and reports how many it changed.
func uniqueBlockIDs(blocks []domain.Block) int {
	seen := make(map[string]struct{}, len(blocks))
	n := 0
	for i := range blocks {
		if _, dup := seen[blocks[i].ID]; dup || blocks[i].ID == "" {
			blocks[i].ID = domain.NewID()
			n++
		}
		seen[blocks[i].ID] = struct{}{}
	}
	return n
}
