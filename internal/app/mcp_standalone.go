package app

import (
	"context"

	mcpserver "productdesc/internal/mcp"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout.
// Every tool call that changes the document persists it, so a preview
// server running in another process picks the change up.
func (a *App) ServeMCP(ctx context.Context) error {
	watcher := newDocWatcher(ctx, a.documents, a.logger.Named("watcher"))
	watcher.Start()
	defer watcher.Stop()

	srv := mcpserver.New(mcpserver.Deps{
		Documents: a.documents,
		Catalog:   a.catalog,
		Logger:    a.logger.Named("mcp"),
		Persist:   true,
	})
	err := srv.ServeStdio()
	a.flush()
	return err
}
