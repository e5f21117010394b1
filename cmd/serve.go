package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"productdesc/internal/app"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the live preview server",
	Long: `Start the live preview server. The browser view re-renders on every
change to the active document and scrolls to and highlights the selected
block. Changes made by another process, such as productdesc mcp, are
picked up automatically.

Examples:
  productdesc serve --document 3f0c...
  productdesc serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the document tools over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

var serveDocument string

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd)

	serveCmd.Flags().StringVarP(&serveDocument, "document", "d", "", "document id to open")
	serveCmd.Flags().IntP("port", "p", 7331, "preview port")
	serveCmd.Flags().String("host", "localhost", "preview host")
	_ = viper.BindPFlag("preview.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("preview.host", serveCmd.Flags().Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return withApp(ctx, func(a *app.App) error {
		return a.Serve(ctx, serveDocument)
	})
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return withApp(ctx, func(a *app.App) error {
		return a.ServeMCP(ctx)
	})
}
