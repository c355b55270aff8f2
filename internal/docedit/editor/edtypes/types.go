package edtypes

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Mark - булев флаг оформления текстового фрагмента.
type Mark int

const (
	MarkBold Mark = iota
	MarkItalic
	MarkUnderline
	MarkStrikethrough
)

// AllMarks перечисляет отметки в порядке вложенности при сериализации.
var AllMarks = []Mark{MarkBold, MarkItalic, MarkUnderline, MarkStrikethrough}

func (m Mark) String() string {
	switch m {
	case MarkBold:
		return "bold"
	case MarkItalic:
		return "italic"
	case MarkUnderline:
		return "underline"
	case MarkStrikethrough:
		return "strikethrough"
	}
	return fmt.Sprintf("Mark(%d)", int(m))
}

// ParseMark возвращает отметку по имени. Принимает как имена модели, так и короткие имена редактора ("strike").
func ParseMark(raw string) (Mark, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bold", "strong":
		return MarkBold, true
	case "italic", "em":
		return MarkItalic, true
	case "underline":
		return MarkUnderline, true
	case "strikethrough", "strike":
		return MarkStrikethrough, true
	}
	return 0, false
}

// Kind - тип блочного элемента.
type Kind int

const (
	KindParagraph Kind = iota
	KindBulletedList
	KindNumberedList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindBulletedList:
		return "bulleted-list"
	case KindNumberedList:
		return "numbered-list"
	case KindListItem:
		return "list-item"
	case KindTable:
		return "table"
	case KindTableRow:
		return "table-row"
	case KindTableCell:
		return "table-cell"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsList - true для маркированного и нумерованного списков.
func (k Kind) IsList() bool {
	return k == KindBulletedList || k == KindNumberedList
}

// IsInlineContainer - true для элементов, дети которых только текст.
func (k Kind) IsInlineContainer() bool {
	return k == KindParagraph || k == KindListItem || k == KindTableCell
}

// Node - узел дерева документа. Реализуется только *Text и *Element.
type Node interface {
	node()
	CloneNode() Node
}

// Text - лист дерева с отметками оформления.
type Text struct {
	Content string

	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
}

// Element - контейнер с упорядоченными дочерними узлами.
type Element struct {
	Kind     Kind
	Children []Node
}

func (*Text) node()    {}
func (*Element) node() {}

func (t *Text) CloneNode() Node {
	c := *t
	return &c
}

func (e *Element) CloneNode() Node {
	return e.Clone()
}

// Clone - глубокая копия элемента.
func (e *Element) Clone() *Element {
	c := &Element{Kind: e.Kind, Children: make([]Node, len(e.Children))}
	for i, child := range e.Children {
		c.Children[i] = child.CloneNode()
	}
	return c
}

func (t *Text) HasMark(m Mark) bool {
	switch m {
	case MarkBold:
		return t.Bold
	case MarkItalic:
		return t.Italic
	case MarkUnderline:
		return t.Underline
	case MarkStrikethrough:
		return t.Strikethrough
	}
	return false
}

func (t *Text) SetMark(m Mark, v bool) {
	switch m {
	case MarkBold:
		t.Bold = v
	case MarkItalic:
		t.Italic = v
	case MarkUnderline:
		t.Underline = v
	case MarkStrikethrough:
		t.Strikethrough = v
	}
}

// SameMarks сравнивает только отметки, без содержимого.
func (t *Text) SameMarks(o *Text) bool {
	return t.Bold == o.Bold && t.Italic == o.Italic && t.Underline == o.Underline && t.Strikethrough == o.Strikethrough
}

// Marks возвращает установленные отметки в порядке AllMarks.
func (t *Text) Marks() []Mark {
	var res []Mark
	for _, m := range AllMarks {
		if t.HasMark(m) {
			res = append(res, m)
		}
	}
	return res
}

// Len - длина содержимого в рунах. Смещения в Point считаются в рунах.
func (t *Text) Len() int {
	return len([]rune(t.Content))
}

// NewText создает лист с указанными отметками.
func NewText(content string, marks ...Mark) *Text {
	t := &Text{Content: content}
	for _, m := range marks {
		t.SetMark(m, true)
	}
	return t
}

// NewElement создает элемент указанного типа.
func NewElement(kind Kind, children ...Node) *Element {
	return &Element{Kind: kind, Children: children}
}

// NewParagraph создает параграф из текстовых листов. Без аргументов - пустой параграф с одним пустым листом.
func NewParagraph(texts ...*Text) *Element {
	return newInline(KindParagraph, texts)
}

func NewListItem(texts ...*Text) *Element {
	return newInline(KindListItem, texts)
}

func NewTableCell(texts ...*Text) *Element {
	return newInline(KindTableCell, texts)
}

func newInline(kind Kind, texts []*Text) *Element {
	e := &Element{Kind: kind}
	for _, t := range texts {
		e.Children = append(e.Children, t)
	}
	if len(e.Children) == 0 {
		e.Children = []Node{&Text{}}
	}
	return e
}

// Document - весь контент редактора: упорядоченные блочные элементы верхнего уровня.
type Document struct {
	Elements []*Element
}

// EmptyDocument возвращает сторожевой пустой документ: один параграф с одним пустым листом.
func EmptyDocument() Document {
	return Document{Elements: []*Element{NewParagraph()}}
}

// NewDocument собирает документ из узлов верхнего уровня. Голые текстовые листы подряд объединяются в параграф,
// результат нормализуется.
func NewDocument(nodes ...Node) Document {
	var doc Document
	var loose *Element
	for _, n := range nodes {
		switch v := n.(type) {
		case *Text:
			if loose == nil {
				loose = &Element{Kind: KindParagraph}
				doc.Elements = append(doc.Elements, loose)
			}
			loose.Children = append(loose.Children, v)
		case *Element:
			loose = nil
			doc.Elements = append(doc.Elements, v)
		}
	}
	doc.Normalize()
	return doc
}

// Clone - глубокая копия документа. Команды никогда не изменяют входной документ.
func (d Document) Clone() Document {
	c := Document{Elements: make([]*Element, len(d.Elements))}
	for i, el := range d.Elements {
		c.Elements[i] = el.Clone()
	}
	return c
}

// IsEmpty - true для сторожевого пустого документа.
func (d Document) IsEmpty() bool {
	if len(d.Elements) != 1 {
		return false
	}
	p := d.Elements[0]
	if p.Kind != KindParagraph || len(p.Children) != 1 {
		return false
	}
	t, ok := p.Children[0].(*Text)
	return ok && t.Content == "" && len(t.Marks()) == 0
}

var (
	ErrInvalidStructure = errors.New("invalid document structure")

	errHTMLCodec = errors.New("HTML codec not registered, import editor package to enable HTML conversion")
	errJSONCodec = errors.New("JSON codec not registered, import plate package to enable editor value conversion")
)

// HTMLParser - функция восстановления документа из HTML, устанавливается из пакета editor
var HTMLParser func(string) Document

// HTMLSerializer - функция сериализации документа в HTML, устанавливается из пакета editor
var HTMLSerializer func(Document) string

// JSONParser - функция разбора значения редактора (Plate JSON), устанавливается из пакета plate
var JSONParser func(io.Reader) (*Document, error)

// JSONSerializer - функция сериализации документа в Plate JSON, устанавливается из пакета plate
var JSONSerializer func(*Document) ([]byte, error)

// UnmarshalJSON разбирает значение редактора через зарегистрированный JSONParser.
func (d *Document) UnmarshalJSON(data []byte) error {
	if JSONParser == nil {
		return errJSONCodec
	}
	doc, err := JSONParser(bytes.NewReader(data))
	if err != nil {
		return err
	}
	d.Elements = doc.Elements
	return nil
}

// MarshalJSON сериализует документ через зарегистрированный JSONSerializer.
func (d Document) MarshalJSON() ([]byte, error) {
	if JSONSerializer == nil {
		return nil, errJSONCodec
	}
	return JSONSerializer(&d)
}

// HTML возвращает сериализованное HTML представление документа.
func (d Document) HTML() (string, error) {
	if HTMLSerializer == nil {
		return "", errHTMLCodec
	}
	return HTMLSerializer(d), nil
}

// Value реализует driver.Valuer: документ хранится в колонке как HTML строка.
func (d Document) Value() (driver.Value, error) {
	return d.HTML()
}

// Scan реализует sql.Scanner. NULL и пустая строка дают сторожевой пустой документ.
func (d *Document) Scan(value interface{}) error {
	if HTMLParser == nil {
		return errHTMLCodec
	}

	var raw string
	switch v := value.(type) {
	case nil:
		*d = EmptyDocument()
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("failed to scan document value of type %T", value)
	}

	*d = HTMLParser(raw)
	return nil
}

// GormDataType указывает GORM хранить документ в текстовой колонке.
func (Document) GormDataType() string {
	return "text"
}
