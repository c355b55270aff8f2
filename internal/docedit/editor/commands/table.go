package commands

import (
	"slices"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// Размер таблицы, вставляемой кнопкой панели инструментов
const (
	DefaultTableRows = 3
	DefaultTableCols = 3
)

// NewTable создает таблицу rows x cols, в каждой ячейке один пустой лист.
// Размеры должны быть положительными, неположительные приводятся к 1.
func NewTable(rows, cols int) *edtypes.Element {
	rows, cols = max(rows, 1), max(cols, 1)

	table := &edtypes.Element{Kind: edtypes.KindTable, Children: make([]edtypes.Node, 0, rows)}
	for range rows {
		table.Children = append(table.Children, newRow(cols))
	}
	return table
}

func newRow(cols int) *edtypes.Element {
	row := &edtypes.Element{Kind: edtypes.KindTableRow, Children: make([]edtypes.Node, 0, cols)}
	for range cols {
		row.Children = append(row.Children, edtypes.NewTableCell())
	}
	return row
}

// InsertTable вставляет таблицу после блока верхнего уровня, в котором начинается выделение, и пустой параграф после нее.
// Пустой параграф под курсором заменяется таблицей. Без выделения таблица добавляется в конец документа.
// Курсор переходит в первую ячейку.
func InsertTable(doc edtypes.Document, sel *edtypes.Range, rows, cols int) (edtypes.Document, *edtypes.Range) {
	out := doc.Clone()
	at, replace := len(out.Elements), false

	if s, ok := resolve(out, sel); ok {
		start, _ := s.edges(inlineBlocks(out))
		if path, ok := out.PathOf(start.block); ok {
			at = path[0] + 1
			if top := out.Elements[path[0]]; top == start.block && top.Kind == edtypes.KindParagraph && blockLen(top) == 0 {
				at, replace = path[0], true
			}
		}
	}

	table := NewTable(rows, cols)

	rest := out.Elements[at:]
	if replace {
		rest = rest[1:]
	}
	elements := make([]*edtypes.Element, 0, len(out.Elements)+2)
	elements = append(elements, out.Elements[:at]...)
	elements = append(elements, table, edtypes.NewParagraph())
	elements = append(elements, rest...)
	out.Elements = elements

	out.Normalize()
	return out, caretIn(out, firstCell(table))
}

func firstCell(table *edtypes.Element) *edtypes.Element {
	return table.Children[0].(*edtypes.Element).Children[0].(*edtypes.Element)
}

// cellRef - положение ячейки в таблице верхнего уровня.
type cellRef struct {
	table    *edtypes.Element
	tableIdx int
	row, col int
}

func (r cellRef) rowElement() *edtypes.Element {
	return r.table.Children[r.row].(*edtypes.Element)
}

func locateCell(doc edtypes.Document, a anchor) (cellRef, bool) {
	path, ok := doc.PathOf(a.block)
	if !ok || len(path) != 3 {
		return cellRef{}, false
	}
	table := doc.Elements[path[0]]
	if table.Kind != edtypes.KindTable {
		return cellRef{}, false
	}
	return cellRef{table: table, tableIdx: path[0], row: path[1], col: path[2]}, true
}

// tableEdit находит таблицу в начале выделения и применяет к ней правку. Без таблицы команда ничего не делает.
func tableEdit(doc edtypes.Document, sel *edtypes.Range, edit func(out *edtypes.Document, s selection, start, end anchor, ref cellRef) *edtypes.Range) (edtypes.Document, *edtypes.Range) {
	out, s, ok := prepare(doc, sel)
	if !ok {
		return doc, sel
	}
	start, end := s.edges(inlineBlocks(out))
	ref, ok := locateCell(out, start)
	if !ok {
		return doc, sel
	}

	rng := edit(&out, s, start, end, ref)
	if rng == nil {
		return doc, sel
	}
	return out, rng
}

// InsertRow вставляет пустую строку выше или ниже текущей. Число ячеек равно числу ячеек текущей строки.
func InsertRow(doc edtypes.Document, sel *edtypes.Range, above bool) (edtypes.Document, *edtypes.Range) {
	return tableEdit(doc, sel, func(out *edtypes.Document, s selection, _, _ anchor, ref cellRef) *edtypes.Range {
		idx := ref.row
		if !above {
			idx++
		}
		ref.table.Children = slices.Insert(ref.table.Children, idx, edtypes.Node(newRow(len(ref.rowElement().Children))))
		out.Normalize()
		return s.toRange(*out)
	})
}

// RemoveRow удаляет текущую строку. Удаление последней строки удаляет таблицу.
func RemoveRow(doc edtypes.Document, sel *edtypes.Range) (edtypes.Document, *edtypes.Range) {
	return tableEdit(doc, sel, func(out *edtypes.Document, _ selection, _, _ anchor, ref cellRef) *edtypes.Range {
		if len(ref.table.Children) == 1 {
			return removeTable(out, ref)
		}

		ref.table.Children = slices.Delete(ref.table.Children, ref.row, ref.row+1)
		row := ref.table.Children[min(ref.row, len(ref.table.Children)-1)].(*edtypes.Element)
		cell := row.Children[min(ref.col, len(row.Children)-1)].(*edtypes.Element)
		out.Normalize()
		return caretIn(*out, cell)
	})
}

// InsertColumn вставляет пустую ячейку в каждую строку слева или справа от текущего столбца.
func InsertColumn(doc edtypes.Document, sel *edtypes.Range, before bool) (edtypes.Document, *edtypes.Range) {
	return tableEdit(doc, sel, func(out *edtypes.Document, s selection, _, _ anchor, ref cellRef) *edtypes.Range {
		idx := ref.col
		if !before {
			idx++
		}
		for _, child := range ref.table.Children {
			row := child.(*edtypes.Element)
			row.Children = slices.Insert(row.Children, min(idx, len(row.Children)), edtypes.Node(edtypes.NewTableCell()))
		}
		out.Normalize()
		return s.toRange(*out)
	})
}

// RemoveColumn удаляет текущий столбец. Строки без ячеек удаляются, таблица без строк удаляется целиком.
func RemoveColumn(doc edtypes.Document, sel *edtypes.Range) (edtypes.Document, *edtypes.Range) {
	return tableEdit(doc, sel, func(out *edtypes.Document, _ selection, _, _ anchor, ref cellRef) *edtypes.Range {
		current := ref.rowElement()

		rows := ref.table.Children[:0]
		for _, child := range ref.table.Children {
			row := child.(*edtypes.Element)
			if ref.col < len(row.Children) {
				row.Children = slices.Delete(row.Children, ref.col, ref.col+1)
			}
			if len(row.Children) > 0 {
				rows = append(rows, row)
			}
		}
		ref.table.Children = rows

		if len(rows) == 0 {
			return removeTable(out, ref)
		}
		if len(current.Children) == 0 {
			current = rows[0].(*edtypes.Element)
		}
		cell := current.Children[min(ref.col, len(current.Children)-1)].(*edtypes.Element)
		out.Normalize()
		return caretIn(*out, cell)
	})
}

// MergeCells объединяет выделенные ячейки одной строки в первую из них, содержимое склеивается.
// Выделение в разных строках или в одной ячейке ничего не меняет.
func MergeCells(doc edtypes.Document, sel *edtypes.Range) (edtypes.Document, *edtypes.Range) {
	return tableEdit(doc, sel, func(out *edtypes.Document, _ selection, _, end anchor, ref cellRef) *edtypes.Range {
		last, ok := locateCell(*out, end)
		if !ok || last.table != ref.table || last.row != ref.row || last.col <= ref.col {
			return nil
		}

		row := ref.rowElement()
		first := row.Children[ref.col].(*edtypes.Element)
		for _, child := range row.Children[ref.col+1 : last.col+1] {
			first.Children = append(first.Children, child.(*edtypes.Element).Children...)
		}
		row.Children = slices.Delete(row.Children, ref.col+1, last.col+1)

		out.Normalize()
		return selection{
			anchor: anchor{block: first},
			focus:  anchor{block: first, offset: blockLen(first)},
		}.toRange(*out)
	})
}

// SplitCell вставляет пустую ячейку после текущей в той же строке.
func SplitCell(doc edtypes.Document, sel *edtypes.Range) (edtypes.Document, *edtypes.Range) {
	return tableEdit(doc, sel, func(out *edtypes.Document, s selection, _, _ anchor, ref cellRef) *edtypes.Range {
		row := ref.rowElement()
		row.Children = slices.Insert(row.Children, ref.col+1, edtypes.Node(edtypes.NewTableCell()))
		out.Normalize()
		return s.toRange(*out)
	})
}

// removeTable удаляет таблицу, оставляя на ее месте пустой параграф. Если за таблицей уже стоит пустой параграф,
// курсор переходит в него.
func removeTable(out *edtypes.Document, ref cellRef) *edtypes.Range {
	idx := ref.tableIdx
	if next := idx + 1; next < len(out.Elements) && out.Elements[next].Kind == edtypes.KindParagraph && blockLen(out.Elements[next]) == 0 {
		out.Elements = slices.Delete(out.Elements, idx, idx+1)
	} else {
		out.Elements[idx] = edtypes.NewParagraph()
	}
	out.Normalize()
	return caretIn(*out, out.Elements[idx])
}
