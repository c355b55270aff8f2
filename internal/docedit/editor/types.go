package editor

import (
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// Реэкспорт типов модели из edtypes
type (
	Document = edtypes.Document
	Node     = edtypes.Node
	Text     = edtypes.Text
	Element  = edtypes.Element
	Kind     = edtypes.Kind
	Mark     = edtypes.Mark
)

// Реэкспорт констант
const (
	KindParagraph    = edtypes.KindParagraph
	KindBulletedList = edtypes.KindBulletedList
	KindNumberedList = edtypes.KindNumberedList
	KindListItem     = edtypes.KindListItem
	KindTable        = edtypes.KindTable
	KindTableRow     = edtypes.KindTableRow
	KindTableCell    = edtypes.KindTableCell

	MarkBold          = edtypes.MarkBold
	MarkItalic        = edtypes.MarkItalic
	MarkUnderline     = edtypes.MarkUnderline
	MarkStrikethrough = edtypes.MarkStrikethrough
)
