package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"productdesc/internal/analyzer"
	"productdesc/internal/config"
	"productdesc/internal/domain"
)

// useTempStorage points the global configuration at a fresh SQLite file.
func useTempStorage(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())
	viper.Set("storage.dsn", filepath.Join(t.TempDir(), "cmd.db"))
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	return c, &buf
}

func writeDocumentFile(t *testing.T) string {
	t.Helper()
	d := domain.NewProductDescription("Desk Lamp", fixedTime)
	hero := domain.NewBlock(domain.BlockTypeHero, 1)
	hero.ID = "hero-1"
	text := domain.NewBlock(domain.BlockTypeText, 1)
	text.ID = "text-1"
	text.Visible = false
	d.Blocks = []domain.Block{hero, text}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "lamp.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRenderCommand(t *testing.T) {
	path := writeDocumentFile(t)

	renderPage, renderOutput = false, ""
	c, buf := newTestCommand()
	require.NoError(t, runRender(c, []string{path}))
	assert.Contains(t, buf.String(), `data-block-id="hero-1"`)
	assert.NotContains(t, buf.String(), `data-block-id="text-1"`)

	renderPage = true
	renderOutput = filepath.Join(t.TempDir(), "lamp.html")
	t.Cleanup(func() { renderPage, renderOutput = false, "" })
	c, _ = newTestCommand()
	require.NoError(t, runRender(c, []string{path}))
	page, err := os.ReadFile(renderOutput)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(page), "<!DOCTYPE html>"))
	assert.Contains(t, string(page), "<title>Desk Lamp</title>")
}

func TestRenderCommand_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	c, _ := newTestCommand()
	assert.Error(t, runRender(c, []string{path}))
	assert.Error(t, runRender(c, []string{filepath.Join(t.TempDir(), "missing.json")}))
}

func TestAnalyzeCommand_Formats(t *testing.T) {
	path := writeDocumentFile(t)
	t.Cleanup(func() { analyzeFormat = "table" })

	analyzeFormat = "json"
	c, buf := newTestCommand()
	require.NoError(t, runAnalyze(c, []string{path}))
	var fromJSON analyzer.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, 2, fromJSON.BlockDiversity)

	analyzeFormat = "yaml"
	c, buf = newTestCommand()
	require.NoError(t, runAnalyze(c, []string{path}))
	var fromYAML analyzer.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, fromJSON.WordCount, fromYAML.WordCount)
	assert.Equal(t, fromJSON.TopKeywords, fromYAML.TopKeywords)

	analyzeFormat = "table"
	c, buf = newTestCommand()
	require.NoError(t, runAnalyze(c, []string{path}))
	assert.Contains(t, buf.String(), "Words")
	assert.Contains(t, buf.String(), "Headings:")

	analyzeFormat = "xml"
	c, _ = newTestCommand()
	assert.ErrorContains(t, runAnalyze(c, []string{path}), "unknown format")
}

func TestNewListExport(t *testing.T) {
	useTempStorage(t)
	t.Cleanup(func() { newName, newTemplate, exportOutput = "", "", "" })

	newName, newTemplate = "Trail Jacket", "fashion-item"
	c, buf := newTestCommand()
	require.NoError(t, runNew(c, nil))
	id := strings.TrimSpace(buf.String())
	require.NotEmpty(t, id)

	c, buf = newTestCommand()
	require.NoError(t, runList(c, nil))
	assert.Contains(t, buf.String(), id)
	assert.Contains(t, buf.String(), "Trail Jacket")

	c, buf = newTestCommand()
	require.NoError(t, runExport(c, []string{id}))
	var d domain.ProductDescription
	require.NoError(t, json.Unmarshal(buf.Bytes(), &d))
	assert.Equal(t, id, d.ID)
	assert.NotEmpty(t, d.Blocks)

	newTemplate = "no-such-template"
	c, _ = newTestCommand()
	assert.ErrorContains(t, runNew(c, nil), "not found")
}

func TestImportMarkdown(t *testing.T) {
	useTempStorage(t)
	t.Cleanup(func() { newName, importDocument, exportOutput = "", "", "" })

	newName = "Kettle"
	c, buf := newTestCommand()
	require.NoError(t, runNew(c, nil))
	id := strings.TrimSpace(buf.String())

	md := filepath.Join(t.TempDir(), "kettle.md")
	require.NoError(t, os.WriteFile(md, []byte("# Boils fast\n\nReady in *90 seconds*.\n"), 0644))

	importDocument = id
	c, _ = newTestCommand()
	require.NoError(t, runImport(c, []string{md}))

	c, buf = newTestCommand()
	require.NoError(t, runExport(c, []string{id}))
	var d domain.ProductDescription
	require.NoError(t, json.Unmarshal(buf.Bytes(), &d))
	require.Len(t, d.Blocks, 1)
	text, ok := d.Blocks[0].Content.(*domain.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Boils fast", text.Heading)
	assert.Contains(t, text.Content, "<em>90 seconds</em>")
}

func TestTemplatesCommands(t *testing.T) {
	useTempStorage(t)

	c, buf := newTestCommand()
	require.NoError(t, runTemplatesList(c, nil))
	assert.Contains(t, buf.String(), "tech-gadget")

	c, buf = newTestCommand()
	require.NoError(t, runTemplatesShow(c, []string{"minimal"}))
	shown := buf.Bytes()
	assert.Contains(t, string(shown), "id: minimal")

	// store an edited copy under a new id
	edited := strings.Replace(string(shown), "id: minimal", "id: my-minimal", 1)
	path := filepath.Join(t.TempDir(), "mine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))
	c, buf = newTestCommand()
	require.NoError(t, runTemplatesAdd(c, []string{path}))
	assert.Contains(t, buf.String(), "my-minimal")

	c, buf = newTestCommand()
	require.NoError(t, runTemplatesList(c, nil))
	assert.Contains(t, buf.String(), "my-minimal")

	c, _ = newTestCommand()
	assert.Error(t, runTemplatesShow(c, []string{"nope"}))
}
