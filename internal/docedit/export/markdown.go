// Экспорт документа редактора в Markdown.
//
// Подчеркивание в Markdown не выражается и теряется. Первая строка таблицы становится заголовком.
package export

import (
	"bytes"
	"io"
	"strings"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	md "github.com/nao1215/markdown"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"|", `\|`,
)

// Markdown возвращает Markdown представление документа.
func Markdown(doc edtypes.Document) (string, error) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func WriteMarkdown(w io.Writer, doc edtypes.Document) error {
	m := md.NewMarkdown(w)
	for i, el := range doc.Elements {
		if i > 0 {
			m.PlainText("")
		}
		writeBlock(m, el)
	}
	return m.Build()
}

func writeBlock(m *md.Markdown, el *edtypes.Element) {
	switch el.Kind {
	case edtypes.KindBulletedList:
		m.BulletList(itemTexts(el)...)
	case edtypes.KindNumberedList:
		m.OrderedList(itemTexts(el)...)
	case edtypes.KindTable:
		writeTable(m, el)
	default:
		m.PlainText(inlineText(el, "  \n"))
	}
}

func itemTexts(list *edtypes.Element) []string {
	res := make([]string, 0, len(list.Children))
	for _, child := range list.Children {
		if item, ok := child.(*edtypes.Element); ok {
			res = append(res, inlineText(item, " "))
		}
	}
	return res
}

func writeTable(m *md.Markdown, table *edtypes.Element) {
	var rows [][]string
	width := 0
	for _, child := range table.Children {
		row, ok := child.(*edtypes.Element)
		if !ok {
			continue
		}
		var cells []string
		for _, c := range row.Children {
			if cell, ok := c.(*edtypes.Element); ok {
				cells = append(cells, inlineText(cell, "<br>"))
			}
		}
		width = max(width, len(cells))
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	// Строки с объединенными ячейками короче остальных
	for i := range rows {
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}

	m.CustomTable(md.TableSet{
		Header: rows[0],
		Rows:   rows[1:],
	}, md.TableOptions{
		AutoWrapText: false,
	})
}

// inlineText собирает текст строчного контейнера с отметками. newline заменяет переводы строк.
func inlineText(el *edtypes.Element, newline string) string {
	var sb strings.Builder
	for _, child := range el.Children {
		t, ok := child.(*edtypes.Text)
		if !ok || t.Content == "" {
			continue
		}
		sb.WriteString(markText(t, newline))
	}
	return sb.String()
}

func markText(t *edtypes.Text, newline string) string {
	content := strings.ReplaceAll(mdEscaper.Replace(t.Content), "\n", newline)
	if strings.TrimSpace(content) == "" {
		return content
	}

	// Пробелы по краям выносятся за маркеры, иначе Markdown не распознает выделение
	trimmed := strings.TrimSpace(content)
	lead := content[:strings.Index(content, trimmed)]
	trail := content[len(lead)+len(trimmed):]

	if t.Strikethrough {
		trimmed = md.Strikethrough(trimmed)
	}
	if t.Italic {
		trimmed = md.Italic(trimmed)
	}
	if t.Bold {
		trimmed = md.Bold(trimmed)
	}
	return lead + trimmed + trail
}
