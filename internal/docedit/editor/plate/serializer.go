package plate

import (
	"encoding/json"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// Serialize сериализует edtypes.Document в значение редактора Plate.
func Serialize(doc *edtypes.Document) ([]byte, error) {
	return json.Marshal(ToValue(doc))
}

// ToValue преобразует документ в массив узлов Plate.
func ToValue(doc *edtypes.Document) []PlateNode {
	value := make([]PlateNode, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		value = append(value, serializeNode(el))
	}
	return value
}

func serializeNode(n edtypes.Node) PlateNode {
	switch v := n.(type) {
	case *edtypes.Text:
		content := v.Content
		return PlateNode{
			Text:          &content,
			Bold:          v.Bold,
			Italic:        v.Italic,
			Underline:     v.Underline,
			Strikethrough: v.Strikethrough,
		}
	case *edtypes.Element:
		node := PlateNode{
			Type:     serializeKind(v.Kind),
			Children: make([]PlateNode, 0, len(v.Children)),
		}
		for _, child := range v.Children {
			node.Children = append(node.Children, serializeNode(child))
		}
		return node
	}
	return PlateNode{}
}

func serializeKind(kind edtypes.Kind) string {
	switch kind {
	case edtypes.KindBulletedList:
		return TypeBulleted
	case edtypes.KindNumberedList:
		return TypeNumbered
	case edtypes.KindListItem:
		return TypeListItem
	case edtypes.KindTable:
		return TypeTable
	case edtypes.KindTableRow:
		return TypeTableRow
	case edtypes.KindTableCell:
		return TypeTableCell
	}
	return TypeParagraph
}
