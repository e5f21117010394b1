package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesc/internal/analyzer"
	"productdesc/internal/domain"
	"productdesc/internal/service"
)

func newTestServer(t *testing.T) (*Server, *service.DocumentStore, *httptest.Server) {
	t.Helper()
	store := service.NewDocumentStore(nil)
	srv := New(store, Options{Host: "localhost", Port: 0, Highlight: 50 * time.Millisecond}, nil)
	store.Subscribe(srv)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, store, ts
}

func get(t *testing.T, url string) (string, *http.Response) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body), resp
}

func TestIndexAndExport(t *testing.T) {
	_, store, ts := newTestServer(t)
	store.CreateDocument("Demo")
	id, err := store.AddBlock(service.BlockSpec{Type: domain.BlockTypeHero, Fields: domain.Patch{"heading": "Welcome"}})
	require.NoError(t, err)

	body, resp := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-block-id="`+id+`"`)
	assert.Contains(t, body, "<title>Demo</title>")
	assert.Contains(t, body, "data-live=")

	body, resp = get(t, ts.URL+"/document.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "document.html")
	assert.Contains(t, body, "Welcome")
	assert.NotContains(t, body, "<script>")
}

func TestAnalysis(t *testing.T) {
	_, store, ts := newTestServer(t)
	store.CreateDocument("Demo")
	_, _ = store.AddBlock(service.BlockSpec{Type: domain.BlockTypeHero, Fields: domain.Patch{"heading": "X"}})

	body, resp := get(t, ts.URL+"/analysis")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var r analyzer.Report
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	assert.True(t, r.HasValidH1)
}

func readMessage(t *testing.T, ctx context.Context, c *websocket.Conn) Message {
	t.Helper()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestWebSocket_RenderAndFocus(t *testing.T) {
	srv, store, ts := newTestServer(t)
	store.CreateDocument("Demo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	initial := readMessage(t, ctx, conn)
	assert.Equal(t, "render", initial.Type)
	require.Eventually(t, func() bool { return srv.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	id, err := store.AddBlock(service.BlockSpec{Type: domain.BlockTypeText})
	require.NoError(t, err)

	m := readMessage(t, ctx, conn)
	assert.Equal(t, "render", m.Type)
	assert.Contains(t, m.HTML, id)

	m = readMessage(t, ctx, conn)
	assert.Equal(t, Message{Type: "focus", BlockID: id, Behavior: "smooth", Block: "center", HighlightMs: 50}, m)

	m = readMessage(t, ctx, conn)
	assert.Equal(t, Message{Type: "unhighlight", BlockID: id}, m)
}

func TestEmit_IgnoresForeignPayloads(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.Emit(context.Background(), "other", 42)
	srv.Emit(context.Background(), service.EventDocumentChanged, service.ChangeEvent{})
	assert.Equal(t, "", srv.lastHTML)
}
