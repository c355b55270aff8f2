// Пакет предоставляет HTML мост документа редактора описаний: сериализацию документа в минимальный семантический HTML
// и восстановление документа из произвольного HTML.
//
// Основные возможности:
//   - Парсинг HTML из io.Reader или строки в дерево edtypes.Document.
//   - Терпимость к ручному и устаревшему HTML: неизвестные теги оборачиваются в параграф, пробельные узлы отбрасываются,
//     пустые обязательные контейнеры заполняются заглушками. Парсер никогда не падает на входных данных.
//   - Сериализация документа с фиксированным порядком вложенности отметок (strong, em, u, s).
//   - Регистрация кодека в edtypes для хранения документа в БД как HTML строки.
package editor

import (
	"io"
	"log/slog"
	"strings"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func init() {
	edtypes.HTMLParser = Deserialize
	edtypes.HTMLSerializer = Serialize
}

// Теги, при наличии которых среди детей неизвестный контейнер разбирается как блочный, а не как строчный текст.
var blockTags = map[string]bool{
	"p": true, "ul": true, "ol": true, "li": true, "table": true,
	"div": true, "section": true, "article": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "footer": true, "main": true, "aside": true, "figure": true,
}

// Строчные теги на верхнем уровне не образуют отдельный параграф, а сливаются с соседним текстом.
var inlineTags = map[string]bool{
	"strong": true, "b": true, "em": true, "i": true, "u": true, "s": true, "del": true, "strike": true,
	"span": true, "a": true, "code": true, "sub": true, "sup": true, "mark": true, "small": true, "font": true,
}

// Содержимое этих тегов никогда не попадает в документ.
var skipTags = map[string]bool{
	"script": true, "style": true, "template": true, "head": true,
	"title": true, "meta": true, "link": true, "noscript": true,
}

// Deserialize восстанавливает документ из HTML строки и никогда не возвращает ошибку.
// Пустая строка и "<p></p>" сразу дают сторожевой пустой документ.
func Deserialize(value string) Document {
	if value == "" || value == "<p></p>" {
		return edtypes.EmptyDocument()
	}

	doc, err := ParseDocument(strings.NewReader(value))
	if err != nil {
		slog.Warn("Parse editor HTML, fallback to empty document", "err", err)
		return edtypes.EmptyDocument()
	}
	return *doc
}

// ParseDocument разбирает HTML фрагмент в документ. Ошибка возвращается только при ошибке чтения r.
func ParseDocument(r io.Reader) (*Document, error) {
	nodes, err := html.ParseFragment(r, &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, err
	}

	var top []Node
	for _, n := range nodes {
		top = append(top, parseBlock(n)...)
	}

	doc := edtypes.NewDocument(top...)
	return &doc, nil
}

func parseBlock(n *html.Node) []Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return []Node{&Text{Content: n.Data}}
	case html.ElementNode:
	default:
		return nil
	}

	if skipTags[n.Data] {
		return nil
	}

	switch n.Data {
	case "p":
		return []Node{newInlineElement(KindParagraph, n)}
	case "ul", "ol":
		return []Node{parseList(n)}
	case "li":
		return []Node{newInlineElement(KindListItem, n)}
	case "table":
		return []Node{parseTable(n)}
	case "tbody", "thead", "tfoot":
		return parseRows(n)
	case "tr":
		return []Node{parseRow(n)}
	case "td", "th":
		return []Node{newInlineElement(KindTableCell, n)}
	}

	// Неизвестный контейнер с блочными детьми прозрачен
	if hasBlockChildren(n) {
		var res []Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			res = append(res, parseBlock(c)...)
		}
		return res
	}

	// Иначе строчное содержимое оборачивается в параграф, в том числе отметки самого тега
	var texts []Node
	walkInline(n, Text{}, &texts)
	if !hasVisibleText(texts) {
		return nil
	}
	if inlineTags[n.Data] {
		return texts
	}
	slog.Debug("Wrap unknown HTML tag into paragraph", "tag", n.Data)
	return []Node{&Element{Kind: KindParagraph, Children: texts}}
}

func parseList(n *html.Node) *Element {
	list := &Element{Kind: KindBulletedList}
	if n.Data == "ol" {
		list.Kind = KindNumberedList
	}

	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type == html.ElementNode && li.Data == "li" {
			list.Children = append(list.Children, newInlineElement(KindListItem, li))
		}
	}

	if len(list.Children) == 0 {
		list.Children = []Node{edtypes.NewListItem()}
	}
	return list
}

func parseTable(n *html.Node) *Element {
	table := &Element{Kind: KindTable, Children: parseRows(n)}
	if len(table.Children) == 0 {
		table.Children = []Node{edtypes.NewElement(KindTableRow, edtypes.NewTableCell())}
	}
	return table
}

// parseRows собирает строки таблицы, поднимая строки из tbody/thead/tfoot с сохранением порядка.
func parseRows(n *html.Node) []Node {
	var rows []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "tr":
			rows = append(rows, parseRow(c))
		case "tbody", "thead", "tfoot":
			rows = append(rows, parseRows(c)...)
		}
	}
	return rows
}

func parseRow(n *html.Node) *Element {
	row := &Element{Kind: KindTableRow}
	for td := n.FirstChild; td != nil; td = td.NextSibling {
		if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
			row.Children = append(row.Children, newInlineElement(KindTableCell, td))
		}
	}

	if len(row.Children) == 0 {
		row.Children = []Node{edtypes.NewTableCell()}
	}
	return row
}

func newInlineElement(kind Kind, n *html.Node) *Element {
	return &Element{Kind: kind, Children: parseInline(n)}
}

// parseInline разбирает строчное содержимое узла. Отметки вложенных тегов складываются:
// <strong>a<em>b</em></strong> дает "a" (bold) и "b" (bold, italic).
func parseInline(n *html.Node) []Node {
	var res []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkInline(c, Text{}, &res)
	}
	if len(res) == 0 {
		res = []Node{&Text{}}
	}
	return res
}

func walkInline(n *html.Node, marks Text, out *[]Node) {
	switch n.Type {
	case html.TextNode:
		t := marks
		t.Content = n.Data
		*out = append(*out, &t)
		return
	case html.ElementNode:
	default:
		return
	}

	if skipTags[n.Data] {
		return
	}

	switch n.Data {
	case "br":
		t := marks
		t.Content = "\n"
		*out = append(*out, &t)
		return
	case "strong", "b":
		marks.Bold = true
	case "em", "i":
		marks.Italic = true
	case "u":
		marks.Underline = true
	case "s", "del", "strike":
		marks.Strikethrough = true
	case "p", "li", "div":
		// Вложенные блоки внутри строчного контейнера разделяются переводом строки
		if hasVisibleText(*out) {
			*out = append(*out, &Text{Content: "\n"})
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkInline(c, marks, out)
	}
}

func hasBlockChildren(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
	}
	return false
}

func hasVisibleText(nodes []Node) bool {
	for _, n := range nodes {
		if t, ok := n.(*Text); ok && strings.TrimSpace(t.Content) != "" {
			return true
		}
	}
	return false
}
