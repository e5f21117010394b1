package service

import (
	"context"
	"sync"
)

// ExportedSaveGuard is an exported alias so _test packages can test the guard.
type ExportedSaveGuard = saveGuard

// saveGuard ensures at most one save of a given document is in flight,
// so a slow autosave and a manual save never write the same row at once.
type saveGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

// TryLock marks docID as being saved. It returns false if a save of the
// same document is already running.
func (g *saveGuard) TryLock(docID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]struct{})
	}
	if _, ok := g.inFlight[docID]; ok {
		return false
	}
	g.inFlight[docID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock must follow every successful TryLock.
func (g *saveGuard) Unlock(docID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, docID)
	g.wg.Done()
}

// WaitAll blocks until every running save finishes or ctx is done.
func (g *saveGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
