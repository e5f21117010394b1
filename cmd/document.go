package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"productdesc/internal/app"
	"productdesc/internal/domain"
	"productdesc/internal/mdimport"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create and store a new document",
	Long: `Create a new product description and store it. The document starts
empty unless a template is given.

Examples:
  productdesc new --name "Desk Lamp"
  productdesc new --name "Trail Jacket" --template fashion-item`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored documents",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var exportCmd = &cobra.Command{
	Use:   "export DOCUMENT_ID",
	Short: "Write a stored document as JSON",
	Long: `Write a stored document as JSON, to stdout or to --output.
The file can be rendered or analyzed without storage access.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE.md",
	Short: "Append a Markdown file to a document as a text block",
	Long: `Convert a Markdown file to HTML and append it to a stored document as
a text block. A leading level 1 or 2 heading becomes the block heading.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	newName        string
	newTemplate    string
	exportOutput   string
	importDocument string
)

func init() {
	rootCmd.AddCommand(newCmd, listCmd, exportCmd, importCmd)

	newCmd.Flags().StringVarP(&newName, "name", "n", "", "document name")
	newCmd.Flags().StringVarP(&newTemplate, "template", "t", "", "template id (see: productdesc templates list)")
	_ = newCmd.MarkFlagRequired("name")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")

	importCmd.Flags().StringVarP(&importDocument, "document", "d", "", "document id")
	_ = importCmd.MarkFlagRequired("document")
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	return withApp(ctx, func(a *app.App) error {
		var tpl *domain.Template
		if newTemplate != "" {
			t, ok, err := a.Catalog().Get(ctx, newTemplate)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("template %q not found", newTemplate)
			}
			tpl = &t
		}
		d, err := a.Documents().Create(ctx, newName, tpl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.ID)
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	return withApp(ctx, func(a *app.App) error {
		docs, err := a.Documents().List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBLOCKS\tUPDATED")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.Name, d.BlockCount, d.UpdatedAt.Local().Format(time.DateTime))
		}
		return w.Flush()
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	return withApp(ctx, func(a *app.App) error {
		d, err := a.Documents().Open(ctx, args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(cmd, exportOutput, append(data, '\n'))
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	spec, err := mdimport.TextBlock(src)
	if err != nil {
		return fmt.Errorf("convert %s: %w", args[0], err)
	}

	ctx := commandContext(cmd)
	return withApp(ctx, func(a *app.App) error {
		if _, err := a.Documents().Open(ctx, importDocument); err != nil {
			return err
		}
		id, err := a.Store().AddBlock(spec)
		if err != nil {
			return err
		}
		if err := a.Documents().Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	})
}

// writeOutput writes data to path, or to the command's stdout when path
// is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
