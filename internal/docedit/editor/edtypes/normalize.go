package edtypes

import (
	"fmt"
	"strings"
)

// Normalize возвращает нормализованную копию документа, входной документ не изменяется.
func Normalize(doc Document) Document {
	c := doc.Clone()
	c.Normalize()
	return c
}

// Normalize приводит документ к канонической форме на месте:
//   - символ U+0000 удаляется из текста (HTML парсер его отбрасывает);
//   - соседние листы с одинаковыми отметками сливаются, пустые листы удаляются, если они не единственные;
//   - контейнеры без обязательных детей получают заглушки (пустой лист, пункт списка, строку, ячейку);
//   - пункты списка и строки таблицы на верхнем уровне оборачиваются в список и таблицу;
//   - пустой документ становится сторожевым документом.
func (d *Document) Normalize() {
	var out []*Element
	var strayList, strayTable *Element

	for _, el := range d.Elements {
		if el == nil {
			continue
		}
		switch el.Kind {
		case KindListItem:
			strayTable = nil
			if strayList == nil {
				strayList = &Element{Kind: KindBulletedList}
				out = append(out, strayList)
			}
			strayList.Children = append(strayList.Children, el)
		case KindTableRow, KindTableCell:
			strayList = nil
			if strayTable == nil {
				strayTable = &Element{Kind: KindTable}
				out = append(out, strayTable)
			}
			strayTable.Children = append(strayTable.Children, el)
		default:
			strayList, strayTable = nil, nil
			out = append(out, el)
		}
	}

	for _, el := range out {
		normalizeElement(el)
	}

	if len(out) == 0 {
		out = []*Element{NewParagraph()}
	}
	d.Elements = out
}

func normalizeElement(e *Element) {
	switch {
	case e.Kind.IsInlineContainer():
		e.Children = normalizeInline(e.Children)
	case e.Kind.IsList():
		e.Children = normalizeListItems(e.Children)
	case e.Kind == KindTable:
		e.Children = normalizeRows(e.Children)
	case e.Kind == KindTableRow:
		e.Children = normalizeCells(e.Children)
	default:
		// Неизвестный тип сериализуется как параграф, так и храним.
		e.Kind = KindParagraph
		e.Children = normalizeInline(e.Children)
	}
}

func normalizeInline(children []Node) []Node {
	var res []Node
	var firstEmpty *Text
	var last *Text

	for _, t := range flattenTexts(children) {
		t.Content = strings.ReplaceAll(t.Content, "\x00", "")
		if t.Content == "" {
			if firstEmpty == nil {
				firstEmpty = t
			}
			continue
		}
		if last != nil && last.SameMarks(t) {
			last.Content += t.Content
			continue
		}
		res = append(res, t)
		last = t
	}

	if len(res) == 0 {
		if firstEmpty == nil {
			firstEmpty = &Text{}
		}
		return []Node{firstEmpty}
	}
	return res
}

func flattenTexts(nodes []Node) []*Text {
	var res []*Text
	for _, n := range nodes {
		switch v := n.(type) {
		case *Text:
			res = append(res, v)
		case *Element:
			res = append(res, flattenTexts(v.Children)...)
		}
	}
	return res
}

func normalizeListItems(children []Node) []Node {
	var res []Node
	var loose *Element

	for _, child := range children {
		switch v := child.(type) {
		case *Text:
			if loose == nil {
				loose = &Element{Kind: KindListItem}
				res = append(res, loose)
			}
			loose.Children = append(loose.Children, v)
			continue
		case *Element:
			switch {
			case v.Kind.IsInlineContainer():
				v.Kind = KindListItem
				res = append(res, v)
			case v.Kind.IsList():
				res = append(res, normalizeListItems(v.Children)...)
			default:
				res = append(res, &Element{Kind: KindListItem, Children: v.Children})
			}
		}
		loose = nil
	}

	if len(res) == 0 {
		res = []Node{NewListItem()}
	}
	for _, item := range res {
		normalizeElement(item.(*Element))
	}
	return res
}

func normalizeRows(children []Node) []Node {
	var res []Node
	var loose *Element

	for _, child := range children {
		var cell Node
		switch v := child.(type) {
		case *Text:
			cell = &Element{Kind: KindTableCell, Children: []Node{v}}
		case *Element:
			switch {
			case v.Kind == KindTableRow:
				res = append(res, v)
				loose = nil
				continue
			case v.Kind == KindTable:
				res = append(res, normalizeRows(v.Children)...)
				loose = nil
				continue
			case v.Kind.IsInlineContainer():
				v.Kind = KindTableCell
				cell = v
			default:
				cell = &Element{Kind: KindTableCell, Children: v.Children}
			}
		}
		if loose == nil {
			loose = &Element{Kind: KindTableRow}
			res = append(res, loose)
		}
		loose.Children = append(loose.Children, cell)
	}

	if len(res) == 0 {
		res = []Node{NewElement(KindTableRow, NewTableCell())}
	}
	for _, row := range res {
		normalizeElement(row.(*Element))
	}
	return res
}

func normalizeCells(children []Node) []Node {
	var res []Node
	for _, child := range children {
		switch v := child.(type) {
		case *Text:
			res = append(res, &Element{Kind: KindTableCell, Children: []Node{v}})
		case *Element:
			if v.Kind.IsInlineContainer() {
				v.Kind = KindTableCell
				res = append(res, v)
			} else {
				res = append(res, &Element{Kind: KindTableCell, Children: v.Children})
			}
		}
	}

	if len(res) == 0 {
		res = []Node{NewTableCell()}
	}
	for _, cell := range res {
		normalizeElement(cell.(*Element))
	}
	return res
}

// Equal - структурное равенство документов.
func Equal(a, b Document) bool {
	if len(a.Elements) != len(b.Elements) {
		return false
	}
	for i := range a.Elements {
		if !equalNode(a.Elements[i], b.Elements[i]) {
			return false
		}
	}
	return true
}

func equalNode(a, b Node) bool {
	switch av := a.(type) {
	case *Text:
		bv, ok := b.(*Text)
		return ok && av.Content == bv.Content && av.SameMarks(bv)
	case *Element:
		bv, ok := b.(*Element)
		if !ok || av.Kind != bv.Kind || len(av.Children) != len(bv.Children) {
			return false
		}
		for i := range av.Children {
			if !equalNode(av.Children[i], bv.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Validate проверяет грамматику документа. Ошибка оборачивает ErrInvalidStructure и содержит путь до узла.
func Validate(doc Document) error {
	if len(doc.Elements) == 0 {
		return fmt.Errorf("%w: document has no elements", ErrInvalidStructure)
	}
	for i, el := range doc.Elements {
		if el == nil {
			return fmt.Errorf("%w: nil element at %v", ErrInvalidStructure, Path{i})
		}
		switch el.Kind {
		case KindListItem, KindTableRow, KindTableCell:
			return fmt.Errorf("%w: %s at top level %v", ErrInvalidStructure, el.Kind, Path{i})
		}
		if err := validateElement(el, Path{i}); err != nil {
			return err
		}
	}
	return nil
}

func validateElement(e *Element, path Path) error {
	if len(e.Children) == 0 {
		return fmt.Errorf("%w: %s without children at %v", ErrInvalidStructure, e.Kind, path)
	}

	var want Kind
	switch {
	case e.Kind.IsInlineContainer():
		for i, child := range e.Children {
			if _, ok := child.(*Text); !ok {
				return fmt.Errorf("%w: block inside %s at %v", ErrInvalidStructure, e.Kind, path.Child(i))
			}
		}
		return nil
	case e.Kind.IsList():
		want = KindListItem
	case e.Kind == KindTable:
		want = KindTableRow
	case e.Kind == KindTableRow:
		want = KindTableCell
	default:
		return fmt.Errorf("%w: unknown kind %s at %v", ErrInvalidStructure, e.Kind, path)
	}

	for i, child := range e.Children {
		el, ok := child.(*Element)
		if !ok || el.Kind != want {
			return fmt.Errorf("%w: %s expects %s children at %v", ErrInvalidStructure, e.Kind, want, path.Child(i))
		}
		if err := validateElement(el, path.Child(i)); err != nil {
			return err
		}
	}
	return nil
}
