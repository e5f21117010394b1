package mdimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesc/internal/domain"
)

func TestToHTML(t *testing.T) {
	html, err := ToHTML([]byte("Some **bold** text"))
	require.NoError(t, err)
	assert.Equal(t, "<p>Some <strong>bold</strong> text</p>\n", html)
}

func TestTextBlock_LeadingHeading(t *testing.T) {
	spec, err := TextBlock([]byte("# Why it works\n\nIt just **does**.\n\n## Details\n\nMore.\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.BlockTypeText, spec.Type)
	assert.Equal(t, "Why it works", spec.Fields["heading"])
	content := spec.Fields["content"].(string)
	assert.NotContains(t, content, "Why it works")
	assert.Contains(t, content, "<h2>Details</h2>")
	assert.Contains(t, content, "<strong>does</strong>")
}

func TestTextBlock_NoHeading(t *testing.T) {
	spec, err := TextBlock([]byte("Plain paragraph.\n\n### Small\n"))
	require.NoError(t, err)
	assert.Equal(t, "", spec.Fields["heading"])
	assert.Contains(t, spec.Fields["content"], "<h3>Small</h3>")
}

func TestTextBlock_SetextHeading(t *testing.T) {
	spec, err := TextBlock([]byte("Title\n=====\n\nBody.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Title", spec.Fields["heading"])
	assert.Equal(t, "<p>Body.</p>", spec.Fields["content"])
}

func TestTextBlock_RuleAfterATXHeading(t *testing.T) {
	spec, err := TextBlock([]byte("# Lamp\n---\nBright light.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Lamp", spec.Fields["heading"])
	content := spec.Fields["content"].(string)
	assert.Contains(t, content, "<hr>")
	assert.Contains(t, content, "<p>Bright light.</p>")
}

func TestTextBlock_SetextDashHeading(t *testing.T) {
	spec, err := TextBlock([]byte("Lamp\n----\nBright light.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Lamp", spec.Fields["heading"])
	assert.Equal(t, "<p>Bright light.</p>", spec.Fields["content"])
}
