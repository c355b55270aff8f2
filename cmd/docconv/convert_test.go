package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"html", "JSON", "md"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
	assert.Equal(t, ".md", FormatMarkdown.Ext())
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		conv Converter
		ext  string
		in   string
		want string
	}{
		{
			name: "html to html",
			conv: Converter{To: FormatHTML},
			ext:  ".html",
			in:   "<div><b>a</b></div>\n<ul><li>x</li></ul>",
			want: "<p><strong>a</strong></p><ul><li>x</li></ul>",
		},
		{
			name: "minified html",
			conv: Converter{To: FormatHTML, Minify: true},
			ext:  ".HTM",
			in:   "<p>a</p>\n<!-- note -->\n<p>b</p>",
			want: "<p>a</p><p>b</p>",
		},
		{
			name: "sanitized html",
			conv: Converter{To: FormatHTML, Sanitize: true},
			ext:  ".html",
			in:   `<p onclick="x()">a<img src="y"></p>`,
			want: "<p>a</p>",
		},
		{
			name: "html to plate",
			conv: Converter{To: FormatJSON},
			ext:  ".html",
			in:   "<p><em>a</em></p>",
			want: `[{"type":"p","children":[{"text":"a","italic":true}]}]`,
		},
		{
			name: "plate to html",
			conv: Converter{To: FormatHTML},
			ext:  ".json",
			in:   `[{"type":"ol","children":[{"type":"li","children":[{"text":"1"}]}]}]`,
			want: "<ol><li>1</li></ol>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.conv.Convert(tt.ext, []byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestConvertMarkdown(t *testing.T) {
	out, err := Converter{To: FormatMarkdown}.Convert(".html", []byte("<p><strong>a</strong></p><ul><li>b</li></ul>"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "**a**")
	assert.Contains(t, string(out), "- b")
}

func TestConvertErrors(t *testing.T) {
	_, err := Converter{To: FormatHTML}.Convert(".txt", []byte("a"))
	assert.ErrorIs(t, err, ErrUnknownInput)

	_, err = Converter{To: FormatHTML}.Convert(".json", []byte("{"))
	assert.Error(t, err)
}
