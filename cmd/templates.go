package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"productdesc/internal/app"
	"productdesc/internal/catalog"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "Manage description templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in, file and stored templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show TEMPLATE_ID",
	Short: "Print a template as YAML",
	Long: `Print a template as YAML. The output can be edited and dropped into the
templates directory or stored with: productdesc templates add FILE.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesShow,
}

var templatesAddCmd = &cobra.Command{
	Use:   "add FILE.yaml",
	Short: "Validate a YAML template and store it",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesAdd,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd, templatesAddCmd)
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	return withApp(ctx, func(a *app.App) error {
		tpls, err := a.Catalog().Templates(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tBLOCKS")
		for _, t := range tpls {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.ID, t.Name, t.Category, len(t.Blocks))
		}
		return w.Flush()
	})
}

func runTemplatesShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	return withApp(ctx, func(a *app.App) error {
		t, ok, err := a.Catalog().Get(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("template %q not found", args[0])
		}
		data, err := catalog.Encode(t)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	})
}

func runTemplatesAdd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	t, err := catalog.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	ctx := commandContext(cmd)
	return withApp(ctx, func(a *app.App) error {
		if err := a.Catalog().Save(ctx, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template %s stored (%d blocks)\n", t.ID, len(t.Blocks))
		return nil
	})
}
