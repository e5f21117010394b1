package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"productdesc/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Document Service — persistence around the edit session
// ─────────────────────────────────────────────────────────────

// ErrNoDocument is returned by operations that need an active document.
var ErrNoDocument = errors.New("no active document")

// ErrSaveInProgress is returned when another save of the same document
// is still running.
var ErrSaveInProgress = errors.New("save already in progress")

// DocumentService moves documents between a repository and the
// DocumentStore of the current session.
type DocumentService struct {
	repo   domain.DocumentRepository
	store  *DocumentStore
	logger *zap.Logger
	guard  saveGuard

	mu sync.Mutex
	// synced is the UpdatedAt the active document had when it was last
	// read from or written to the repository.
	synced map[string]time.Time
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(repo domain.DocumentRepository, store *DocumentStore, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		repo:   repo,
		store:  store,
		logger: logger,
		synced: make(map[string]time.Time),
	}
}

// Store returns the session store.
func (s *DocumentService) Store() *DocumentStore {
	return s.store
}

// Create starts a new document, optionally instantiating tpl into it,
// and persists it.
func (s *DocumentService) Create(ctx context.Context, name string, tpl *domain.Template) (domain.ProductDescription, error) {
	d := s.store.CreateDocument(name)
	if tpl != nil {
		if err := s.store.ApplyTemplate(*tpl); err != nil {
			return d, fmt.Errorf("create document: %w", err)
		}
	}
	if err := s.Save(ctx); err != nil {
		return d, err
	}
	d, _ = s.store.Document()
	return d, nil
}

// Open loads a stored document into the session.
func (s *DocumentService) Open(ctx context.Context, id string) (domain.ProductDescription, error) {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return domain.ProductDescription{}, fmt.Errorf("open document %s: %w", id, err)
	}
	if err := s.store.Load(*d); err != nil {
		return domain.ProductDescription{}, fmt.Errorf("open document %s: %w", id, err)
	}
	s.markSynced(d.ID, d.UpdatedAt)
	s.logger.Info("document opened", zap.String("documentId", d.ID), zap.Int("blocks", len(d.Blocks)))
	return *d, nil
}

// Save writes the active document to the repository.
func (s *DocumentService) Save(ctx context.Context) error {
	d, ok := s.store.Document()
	if !ok {
		return ErrNoDocument
	}
	if !s.guard.TryLock(d.ID) {
		return ErrSaveInProgress
	}
	defer s.guard.Unlock(d.ID)

	if err := s.repo.SaveDocument(ctx, &d); err != nil {
		return fmt.Errorf("save document %s: %w", d.ID, err)
	}
	s.markSynced(d.ID, d.UpdatedAt)
	s.logger.Debug("document saved", zap.String("documentId", d.ID))
	return nil
}

// SaveIfChanged saves the active document when it changed since it was
// last synced. It reports whether a save happened.
func (s *DocumentService) SaveIfChanged(ctx context.Context) (bool, error) {
	d, ok := s.store.Document()
	if !ok || !s.dirty(d) {
		return false, nil
	}
	if err := s.Save(ctx); err != nil {
		if errors.Is(err, ErrSaveInProgress) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReloadIfNewer reloads the active document when the stored copy is newer
// than the one the session last synced, e.g. after another process edited
// it. Local unsaved edits win: the reload is skipped and logged.
func (s *DocumentService) ReloadIfNewer(ctx context.Context) (bool, error) {
	d, ok := s.store.Document()
	if !ok {
		return false, nil
	}
	stored, err := s.repo.DocumentUpdatedAt(ctx, d.ID)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	synced, known := s.synced[d.ID]
	s.mu.Unlock()
	if !known || !stored.After(synced) {
		return false, nil
	}
	if s.dirty(d) {
		s.logger.Warn("stored document changed while session has unsaved edits; keeping session",
			zap.String("documentId", d.ID))
		return false, nil
	}
	if _, err := s.Open(ctx, d.ID); err != nil {
		return false, err
	}
	return true, nil
}

// List returns summaries of every stored document.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	return s.repo.ListDocuments(ctx)
}

// Delete removes a stored document. The session is left alone.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	s.mu.Lock()
	delete(s.synced, id)
	s.mu.Unlock()
	return nil
}

// WaitIdle blocks until in-flight saves finish or ctx is done.
func (s *DocumentService) WaitIdle(ctx context.Context) {
	s.guard.WaitAll(ctx)
}

func (s *DocumentService) markSynced(id string, at time.Time) {
	s.mu.Lock()
	s.synced[id] = at
	s.mu.Unlock()
}

func (s *DocumentService) dirty(d domain.ProductDescription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	synced, ok := s.synced[d.ID]
	return !ok || d.UpdatedAt.After(synced)
}
