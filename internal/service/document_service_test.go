package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesc/internal/domain"
	"productdesc/internal/service"
)

var errNotFound = errors.New("not found")

// memRepo is an in-memory domain.DocumentRepository.
type memRepo struct {
	mu    sync.Mutex
	docs  map[string]domain.ProductDescription
	saves int
}

func newMemRepo() *memRepo {
	return &memRepo{docs: map[string]domain.ProductDescription{}}
}

func (r *memRepo) SaveDocument(_ context.Context, d *domain.ProductDescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := d.Clone()
	if err != nil {
		return err
	}
	r.docs[d.ID] = c
	r.saves++
	return nil
}

func (r *memRepo) GetDocument(_ context.Context, id string) (*domain.ProductDescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, errNotFound
	}
	c, err := d.Clone()
	return &c, err
}

func (r *memRepo) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DocumentSummary
	for _, d := range r.docs {
		out = append(out, domain.DocumentSummary{ID: d.ID, Name: d.Name, BlockCount: len(d.Blocks), UpdatedAt: d.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) DeleteDocument(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *memRepo) DocumentUpdatedAt(_ context.Context, id string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return time.Time{}, errNotFound
	}
	return d.UpdatedAt, nil
}

func newDocService(t *testing.T) (*service.DocumentService, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	store := service.NewDocumentStore(nil, service.WithClock(tickingClock()))
	return service.NewDocumentService(repo, store, nil), repo
}

func TestDocumentService_SaveWithoutDocument(t *testing.T) {
	svc, _ := newDocService(t)
	assert.ErrorIs(t, svc.Save(context.Background()), service.ErrNoDocument)
}

func TestDocumentService_CreateFromTemplateAndOpen(t *testing.T) {
	ctx := context.Background()
	svc, repo := newDocService(t)
	tpl := sampleTemplate()

	d, err := svc.Create(ctx, "Demo", &tpl)
	require.NoError(t, err)
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, 1, repo.saves)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].BlockCount)

	svc.Store().CreateDocument("Other")
	opened, err := svc.Open(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, opened.ID)
	cur, _ := svc.Store().Document()
	assert.Equal(t, "Demo", cur.Name)
}

func TestDocumentService_SaveIfChanged(t *testing.T) {
	ctx := context.Background()
	svc, repo := newDocService(t)
	_, err := svc.Create(ctx, "Demo", nil)
	require.NoError(t, err)

	saved, err := svc.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.False(t, saved)

	_, _ = svc.Store().AddBlock(service.BlockSpec{Type: domain.BlockTypeHero})
	saved, err = svc.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 2, repo.saves)
}

func TestDocumentService_ReloadIfNewer(t *testing.T) {
	ctx := context.Background()
	svc, repo := newDocService(t)
	d, err := svc.Create(ctx, "Demo", nil)
	require.NoError(t, err)

	reloaded, err := svc.ReloadIfNewer(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded)

	// another process edits the stored copy
	ext := repo.docs[d.ID]
	ext.Blocks = []domain.Block{domain.NewBlock(domain.BlockTypeFAQ, 1)}
	ext.UpdatedAt = ext.UpdatedAt.Add(time.Hour)
	repo.docs[d.ID] = ext

	reloaded, err = svc.ReloadIfNewer(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded)
	cur, _ := svc.Store().Document()
	require.Len(t, cur.Blocks, 1)
	assert.Equal(t, domain.BlockTypeFAQ, cur.Blocks[0].Type)
}

func TestDocumentService_ReloadKeepsUnsavedEdits(t *testing.T) {
	ctx := context.Background()
	svc, repo := newDocService(t)
	d, err := svc.Create(ctx, "Demo", nil)
	require.NoError(t, err)

	_, _ = svc.Store().AddBlock(service.BlockSpec{Type: domain.BlockTypeHero})
	ext := repo.docs[d.ID]
	ext.UpdatedAt = ext.UpdatedAt.Add(time.Hour)
	repo.docs[d.ID] = ext

	reloaded, err := svc.ReloadIfNewer(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded)
	cur, _ := svc.Store().Document()
	assert.Len(t, cur.Blocks, 1)
}

func TestDocumentService_OpenMissing(t *testing.T) {
	svc, _ := newDocService(t)
	_, err := svc.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, errNotFound)
}
