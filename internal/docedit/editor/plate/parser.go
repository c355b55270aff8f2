package plate

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

func init() {
	edtypes.JSONParser = ParseJSON
	edtypes.JSONSerializer = Serialize
}

var kindByType = map[string]edtypes.Kind{
	TypeParagraph: edtypes.KindParagraph,
	"paragraph":   edtypes.KindParagraph,
	"lic":         edtypes.KindParagraph,
	TypeBulleted:  edtypes.KindBulletedList,
	TypeNumbered:  edtypes.KindNumberedList,
	TypeListItem:  edtypes.KindListItem,
	TypeTable:     edtypes.KindTable,
	TypeTableRow:  edtypes.KindTableRow,
	TypeTableCell: edtypes.KindTableCell,
	"th":          edtypes.KindTableCell,
}

// ParseJSON парсит значение редактора Plate в edtypes.Document.
// Неизвестные типы элементов становятся параграфами, результат нормализуется.
func ParseJSON(r io.Reader) (*edtypes.Document, error) {
	var value []PlateNode
	if err := json.NewDecoder(r).Decode(&value); err != nil {
		return nil, err
	}

	nodes := make([]edtypes.Node, 0, len(value))
	for _, node := range value {
		nodes = append(nodes, parseNode(node))
	}

	doc := edtypes.NewDocument(nodes...)
	return &doc, nil
}

// FromValue строит документ из значения Plate без нормализации, чтобы его структуру можно было проверить
// edtypes.Validate. Текстовые листы верхнего уровня оборачиваются в параграф.
func FromValue(value []PlateNode) edtypes.Document {
	var doc edtypes.Document
	for _, node := range value {
		switch n := parseNode(node).(type) {
		case *edtypes.Element:
			doc.Elements = append(doc.Elements, n)
		case *edtypes.Text:
			doc.Elements = append(doc.Elements, &edtypes.Element{Kind: edtypes.KindParagraph, Children: []edtypes.Node{n}})
		}
	}
	return doc
}

// parseNode преобразует узел Plate в узел модели.
func parseNode(node PlateNode) edtypes.Node {
	if node.IsText() {
		return parseText(node)
	}

	kind, ok := kindByType[node.Type]
	if !ok {
		slog.Warn("Unknown plate element type", "type", node.Type)
		kind = edtypes.KindParagraph
	}

	el := &edtypes.Element{Kind: kind}
	for _, child := range node.Children {
		el.Children = append(el.Children, parseNode(child))
	}
	return el
}

// parseText преобразует текстовый лист Plate в edtypes.Text.
func parseText(node PlateNode) *edtypes.Text {
	text := &edtypes.Text{
		Content:       *node.Text,
		Bold:          node.Bold,
		Italic:        node.Italic,
		Underline:     node.Underline,
		Strikethrough: node.Strikethrough,
	}

	for key := range node.Attrs {
		slog.Debug("Unknown plate mark", "mark", key)
	}
	return text
}
