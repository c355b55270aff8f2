package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/plate"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/export"
	policy "github.com/aisa-it/aiplan/docedit/internal/docedit/redactor-policy"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var minifier *minify.M = minify.New()

func init() {
	minifier.AddFunc("text/html", html.Minify)
}

var ErrUnknownInput = errors.New("unknown input format")

type Format string

const (
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatHTML, FormatJSON, FormatMarkdown:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

func (f Format) Ext() string {
	return "." + string(f)
}

// Converter переводит один документ во входном формате в формат To.
// Minify и Sanitize применяются только к HTML входу.
type Converter struct {
	To       Format
	Minify   bool
	Sanitize bool
}

func (c Converter) Convert(ext string, data []byte) ([]byte, error) {
	var doc editor.Document
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		if c.Minify {
			// Неминифицируемый HTML разбирается как есть
			if m, err := minifier.Bytes("text/html", data); err == nil {
				data = m
			}
		}
		src := string(data)
		if c.Sanitize {
			src = policy.Sanitize(src)
		}
		doc = editor.Deserialize(src)
	case ".json":
		d, err := plate.ParseJSON(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		doc = *d
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownInput, ext)
	}

	switch c.To {
	case FormatJSON:
		return plate.Serialize(&doc)
	case FormatMarkdown:
		md, err := export.Markdown(doc)
		return []byte(md), err
	}
	return []byte(editor.Serialize(doc)), nil
}
