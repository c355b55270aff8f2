// Пакет plate предоставляет инструменты для разбора и сериализации значения редактора Plate.
// Значение редактора - JSON массив блоков вида [{"type":"p","children":[{"text":"a","bold":true}]}].
// Преобразует его в структуры данных пакета edtypes и обратно.
package plate

import (
	"encoding/json"
)

// Типы элементов Plate
const (
	TypeParagraph = "p"
	TypeBulleted  = "ul"
	TypeNumbered  = "ol"
	TypeListItem  = "li"
	TypeTable     = "table"
	TypeTableRow  = "tr"
	TypeTableCell = "td"
)

// PlateNode представляет узел значения редактора: элемент (Type + Children) или текстовый лист (Text + отметки).
// Ключи, неизвестные модели, сохраняются в Attrs при разборе и не сериализуются.
type PlateNode struct {
	Type     string      `json:"type,omitempty"`
	Children []PlateNode `json:"children,omitempty"`

	Text          *string `json:"text,omitempty"`
	Bold          bool    `json:"bold,omitempty"`
	Italic        bool    `json:"italic,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strikethrough bool    `json:"strikethrough,omitempty"`

	Attrs map[string]interface{} `json:"-"`
}

// IsText - true для текстового листа.
func (n PlateNode) IsText() bool {
	return n.Text != nil
}

// UnmarshalJSON разбирает известные ключи в поля, остальные складывает в Attrs.
func (n *PlateNode) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = PlateNode{}
	for key, val := range raw {
		var err error
		switch key {
		case "type":
			err = json.Unmarshal(val, &n.Type)
		case "children":
			err = json.Unmarshal(val, &n.Children)
		case "text":
			var s string
			err = json.Unmarshal(val, &s)
			n.Text = &s
		case "bold", "italic", "underline", "strikethrough", "strike":
			var b bool
			if json.Unmarshal(val, &b) == nil {
				n.setMark(key, b)
			}
		default:
			var v interface{}
			if json.Unmarshal(val, &v) == nil {
				if n.Attrs == nil {
					n.Attrs = make(map[string]interface{})
				}
				n.Attrs[key] = v
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *PlateNode) setMark(key string, v bool) {
	switch key {
	case "bold":
		n.Bold = v
	case "italic":
		n.Italic = v
	case "underline":
		n.Underline = v
	case "strikethrough", "strike":
		n.Strikethrough = v
	}
}
