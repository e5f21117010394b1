package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"productdesc/internal/analyzer"
	"productdesc/internal/domain"
	"productdesc/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render FILE.json",
	Short: "Render a document file to HTML",
	Long: `Render the visible blocks of a document JSON file (see: productdesc export)
to HTML. With --page the fragment is wrapped in a standalone HTML page.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE.json",
	Short: "Report heading structure, keywords and content statistics",
	Long: `Analyze a document JSON file and report its heading structure, top
keywords, content statistics and recommendations.

Examples:
  productdesc analyze lamp.json
  productdesc analyze lamp.json -f json
  productdesc analyze lamp.json -f yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	renderOutput  string
	renderPage    bool
	analyzeFormat string
)

func init() {
	rootCmd.AddCommand(renderCmd, analyzeCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().BoolVar(&renderPage, "page", false, "wrap the fragment in a standalone HTML page")

	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "output format (table, json, yaml)")
}

func readDocument(path string) (domain.ProductDescription, error) {
	var d domain.ProductDescription
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	d, err := readDocument(args[0])
	if err != nil {
		return err
	}
	body := render.Render(d)
	if !renderPage {
		return writeOutput(cmd, renderOutput, []byte(body+"\n"))
	}
	var buf bytes.Buffer
	if err := render.Page(render.PageOptions{Title: d.Name}, body).Render(commandContext(cmd), &buf); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return writeOutput(cmd, renderOutput, buf.Bytes())
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	d, err := readDocument(args[0])
	if err != nil {
		return err
	}
	r := analyzer.Analyze(d)
	out := cmd.OutOrStdout()

	switch analyzeFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(r)
	case "table":
		return writeReport(cmd, r)
	default:
		return fmt.Errorf("unknown format %q (valid: table, json, yaml)", analyzeFormat)
	}
}

func writeReport(cmd *cobra.Command, r analyzer.Report) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Words\t%d\n", r.WordCount)
	fmt.Fprintf(w, "Characters\t%d\n", r.CharacterCount)
	fmt.Fprintf(w, "Sections\t%d\n", r.SectionCount)
	fmt.Fprintf(w, "Block types\t%d\n", r.BlockDiversity)
	fmt.Fprintf(w, "Density\t%.1f chars/section\n", r.ContentDensity)
	fmt.Fprintf(w, "H1 count\t%d\n", r.H1Count)
	fmt.Fprintf(w, "Proper hierarchy\t%t\n", r.HasProperHierarchy)
	fmt.Fprintf(w, "Media\t%d images, %d galleries, %d videos\n", r.ImageCount, r.GalleryCount, r.VideoCount)
	fmt.Fprintf(w, "Keywords\t%s\n", strings.Join(r.TopKeywords, ", "))
	if err := w.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(r.Headings) > 0 {
		fmt.Fprintln(out, "\nHeadings:")
		for _, h := range r.Headings {
			fmt.Fprintf(out, "%sH%d %s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Level, h.Text)
		}
	}
	if len(r.Recommendations) > 0 {
		fmt.Fprintln(out, "\nRecommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(out, "  • %s\n", rec)
		}
	}
	return nil
}
