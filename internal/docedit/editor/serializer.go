package editor

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Порядок вложенности тегов отметок фиксирован: strong, em, u, s. От него зависит стабильность round-trip.
var markTags = [...]struct {
	mark Mark
	tag  string
}{
	{MarkBold, "strong"},
	{MarkItalic, "em"},
	{MarkUnderline, "u"},
	{MarkStrikethrough, "s"},
}

// Serialize возвращает минимальный семантический HTML документа: без атрибутов, классов и пробелов между тегами.
func Serialize(doc Document) string {
	var sb strings.Builder
	// strings.Builder не возвращает ошибок записи
	_ = RenderDocument(&sb, doc)
	return sb.String()
}

// RenderDocument пишет HTML документа в w.
func RenderDocument(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	for _, el := range doc.Elements {
		renderNode(bw, el)
	}
	return bw.Flush()
}

func renderNode(w *bufio.Writer, n Node) {
	switch v := n.(type) {
	case *Text:
		renderText(w, v)
	case *Element:
		tag := elementTag(v.Kind)
		w.WriteString("<" + tag + ">")
		for _, child := range v.Children {
			renderNode(w, child)
		}
		w.WriteString("</" + tag + ">")
	}
}

func renderText(w *bufio.Writer, t *Text) {
	for _, mt := range markTags {
		if t.HasMark(mt.mark) {
			w.WriteString("<" + mt.tag + ">")
		}
	}
	w.WriteString(html.EscapeString(t.Content))
	for i := len(markTags) - 1; i >= 0; i-- {
		if t.HasMark(markTags[i].mark) {
			w.WriteString("</" + markTags[i].tag + ">")
		}
	}
}

func elementTag(kind Kind) string {
	switch kind {
	case KindParagraph:
		return "p"
	case KindBulletedList:
		return "ul"
	case KindNumberedList:
		return "ol"
	case KindListItem:
		return "li"
	case KindTable:
		return "table"
	case KindTableRow:
		return "tr"
	case KindTableCell:
		return "td"
	}
	return "p"
}
