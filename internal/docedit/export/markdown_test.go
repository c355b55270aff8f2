package export

import (
	"strings"
	"testing"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{"paragraph", "<p>hello</p>", []string{"hello"}},
		{"bold", "<p><strong>a</strong> b</p>", []string{"**a** b"}},
		{"italic", "<p><em>a</em></p>", []string{"*a*"}},
		{"strike", "<p><s>a</s></p>", []string{"~~a~~"}},
		{"underline dropped", "<p><u>a</u></p>", []string{"a"}},
		{"escape", "<p>2*3_4</p>", []string{`2\*3\_4`}},
		{"bullets", "<ul><li>one</li><li>two</li></ul>", []string{"- one", "- two"}},
		{"numbers", "<ol><li>one</li><li>two</li></ol>", []string{"1. one", "one", "two"}},
		{"table", "<table><tr><td>h1</td><td>h2</td></tr><tr><td>a</td><td>b</td></tr></table>", []string{"h1", "h2", "a", "b", "|"}},
		{"bold spaces outside", "<p>x<strong> a </strong>y</p>", []string{"x **a** y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Markdown(editor.Deserialize(tt.html))
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestMarkdownBlocksSeparated(t *testing.T) {
	out, err := Markdown(editor.Deserialize("<p>a</p><p>b</p>"))
	require.NoError(t, err)
	assert.Contains(t, out, "a\n\nb")
}

func TestMarkdownEmpty(t *testing.T) {
	out, err := Markdown(editor.Deserialize(""))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}
