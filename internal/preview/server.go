// Package preview serves a live HTML preview of the edit session over
// HTTP and pushes re-renders and focus changes over a websocket.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/coder/websocket"
	"go.uber.org/zap"

	"productdesc/internal/analyzer"
	"productdesc/internal/focus"
	"productdesc/internal/render"
	"productdesc/internal/service"
)

type Options struct {
	Host           string
	Port           int
	Highlight      time.Duration
	AllowedOrigins []string
}

// Server is both the HTTP preview and an observer of the DocumentStore:
// register it as a service.EventEmitter so edits re-render the page.
type Server struct {
	opts   Options
	store  *service.DocumentStore
	logger *zap.Logger

	cache  render.Cache
	hub    *Hub
	syncer *focus.Syncer

	mu       sync.Mutex
	lastHTML string
	http     *http.Server
}

func New(store *service.DocumentStore, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		opts:   opts,
		store:  store,
		logger: logger,
		hub:    NewHub(logger),
	}
	s.syncer = focus.NewSyncer(s, focus.WithHighlight(opts.Highlight), focus.WithLogger(logger))
	return s
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
}

// Handler returns the preview routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /document.html", s.handleExport)
	mux.HandleFunc("GET /analysis", s.handleAnalysis)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.mu.Lock()
	s.http = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.http
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", zap.String("url", "http://"+s.Addr()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.syncer.Stop()
		return srv.Shutdown(shutdownCtx)
	}
}

// ── EventEmitter ───────────────────────────────────────────

// Emit re-renders on document events and re-syncs focus on any event.
func (s *Server) Emit(ctx context.Context, event string, data any) {
	ev, ok := data.(service.ChangeEvent)
	if !ok || ev.State.Document == nil {
		return
	}
	html := s.cache.Render(*ev.State.Document)

	s.mu.Lock()
	changed := html != s.lastHTML
	s.lastHTML = html
	s.mu.Unlock()

	if changed {
		s.hub.Broadcast(Message{Type: "render", HTML: html})
	}
	s.syncer.Sync(ctx, ev.State.SelectedID, html)
}

// ── focus.Sink ─────────────────────────────────────────────

func (s *Server) Focus(_ context.Context, f focus.Focus) {
	s.hub.Broadcast(Message{
		Type:        "focus",
		BlockID:     f.BlockID,
		Behavior:    f.Behavior,
		Block:       f.Block,
		HighlightMs: f.HighlightMs,
	})
}

func (s *Server) Unhighlight(_ context.Context, blockID string) {
	s.hub.Broadcast(Message{Type: "unhighlight", BlockID: blockID})
}

// ── handlers ───────────────────────────────────────────────

func (s *Server) current() (html, title, selected string) {
	st := s.store.State()
	if st.Document == nil {
		return "", "", ""
	}
	return s.cache.Render(*st.Document), st.Document.Name, st.SelectedID
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	html, title, selected := s.current()
	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	page := render.Page(render.PageOptions{
		Title:      title,
		LiveURL:    fmt.Sprintf("%s://%s/ws", scheme, r.Host),
		SelectedID: selected,
	}, html)
	templ.Handler(page).ServeHTTP(w, r)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	html, title, _ := s.current()
	w.Header().Set("Content-Disposition", `attachment; filename="document.html"`)
	templ.Handler(render.Page(render.PageOptions{Title: title}, html)).ServeHTTP(w, r)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, _ *http.Request) {
	st := s.store.State()
	var report analyzer.Report
	if st.Document != nil {
		report = analyzer.Analyze(*st.Document)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.logger.Error("encode analysis", zap.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.AllowedOrigins,
	})
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	html, _, _ := s.current()
	s.hub.serve(r.Context(), conn, []Message{{Type: "render", HTML: html}})
}
