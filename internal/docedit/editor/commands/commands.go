// Пакет commands реализует команды редактора описаний: переключение отметок и типов блоков, вставку и правку таблиц,
// ввод текста.
//
// Все команды - чистые преобразования: принимают документ и выделение, возвращают новый документ и новое выделение.
// Входной документ никогда не изменяется. Выделение nil означает отсутствие выделения, команда тогда ничего не делает
// (кроме InsertTable, которая вставляет таблицу в конец документа).
//
// Команды ожидают нормализованный документ (такой дают editor.Deserialize, plate.ParseJSON и edtypes.NewDocument)
// и возвращают нормализованный документ.
//
// Возвращенное выделение покрывает те же символы в новом документе. Следующую команду нужно вызывать с ним:
// исходный Range адресует листы старого дерева и после разбиения или слияния листов устаревает.
package commands

import (
	"slices"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// anchor - позиция, привязанная к строчному контейнеру и смещению в рунах от его начала.
// В отличие от edtypes.Point переживает разбиение и слияние листов и перестройку дерева.
type anchor struct {
	block  *edtypes.Element
	offset int
}

type selection struct {
	anchor, focus anchor
}

// prepare копирует и нормализует документ, привязывая выделение к копии.
func prepare(doc edtypes.Document, sel *edtypes.Range) (edtypes.Document, selection, bool) {
	out := doc.Clone()
	s, ok := resolve(out, sel)
	if !ok {
		return doc, selection{}, false
	}
	out.Normalize()
	return out, s, true
}

func resolve(doc edtypes.Document, sel *edtypes.Range) (selection, bool) {
	if sel == nil {
		return selection{}, false
	}
	a, ok := resolvePoint(doc, sel.Anchor)
	if !ok {
		return selection{}, false
	}
	f, ok := resolvePoint(doc, sel.Focus)
	if !ok {
		return selection{}, false
	}
	return selection{anchor: a, focus: f}, true
}

func resolvePoint(doc edtypes.Document, p edtypes.Point) (anchor, bool) {
	n, ok := doc.NodeAt(p.Path)
	if !ok {
		return anchor{}, false
	}

	path, offset := p.Path, p.Offset
	if _, isText := n.(*edtypes.Text); !isText {
		if path, ok = doc.FirstLeaf(p.Path); !ok {
			return anchor{}, false
		}
		offset = 0
	}

	block, ok := doc.ElementAt(path.Parent())
	if !ok || !block.Kind.IsInlineContainer() {
		return anchor{}, false
	}

	idx := path[len(path)-1]
	pos := 0
	for i, child := range block.Children {
		t, ok := child.(*edtypes.Text)
		if !ok {
			continue
		}
		if i == idx {
			return anchor{block: block, offset: pos + min(max(offset, 0), t.Len())}, true
		}
		pos += t.Len()
	}
	return anchor{}, false
}

// point переводит якорь в позицию текущего дерева. Смещение на границе листов относится к более раннему листу.
func (a anchor) point(doc edtypes.Document) (edtypes.Point, bool) {
	path, ok := doc.PathOf(a.block)
	if !ok {
		return edtypes.Point{}, false
	}

	pos := a.offset
	last := -1
	for i, child := range a.block.Children {
		t, ok := child.(*edtypes.Text)
		if !ok {
			continue
		}
		if pos <= t.Len() {
			return edtypes.Point{Path: path.Child(i), Offset: pos}, true
		}
		pos -= t.Len()
		last = i
	}
	if last < 0 {
		return edtypes.Point{}, false
	}
	return edtypes.Point{Path: path.Child(last), Offset: a.block.Children[last].(*edtypes.Text).Len()}, true
}

// leaf возвращает лист под якорем по тому же правилу, что и point.
func (a anchor) leaf() *edtypes.Text {
	pos := a.offset
	var last *edtypes.Text
	for _, t := range leavesOf(a.block) {
		if pos <= t.Len() {
			return t
		}
		pos -= t.Len()
		last = t
	}
	return last
}

func (s selection) toRange(doc edtypes.Document) *edtypes.Range {
	a, ok := s.anchor.point(doc)
	if !ok {
		return startCaret(doc)
	}
	f, ok := s.focus.point(doc)
	if !ok {
		return startCaret(doc)
	}
	return &edtypes.Range{Anchor: a, Focus: f}
}

// edges возвращает начало и конец выделения в порядке документа.
func (s selection) edges(blocks []*edtypes.Element) (anchor, anchor) {
	ai, fi := slices.Index(blocks, s.anchor.block), slices.Index(blocks, s.focus.block)
	if ai < fi || (ai == fi && s.anchor.offset <= s.focus.offset) {
		return s.anchor, s.focus
	}
	return s.focus, s.anchor
}

// inlineBlocks возвращает строчные контейнеры документа в порядке обхода.
func inlineBlocks(doc edtypes.Document) []*edtypes.Element {
	var res []*edtypes.Element
	var walk func(el *edtypes.Element)
	walk = func(el *edtypes.Element) {
		if el.Kind.IsInlineContainer() {
			res = append(res, el)
			return
		}
		for _, child := range el.Children {
			if c, ok := child.(*edtypes.Element); ok {
				walk(c)
			}
		}
	}
	for _, el := range doc.Elements {
		walk(el)
	}
	return res
}

// containerKinds сопоставляет строчному контейнеру тип его блока: Paragraph, тип списка или TableCell.
func containerKinds(doc edtypes.Document) map[*edtypes.Element]edtypes.Kind {
	res := make(map[*edtypes.Element]edtypes.Kind)
	for _, top := range doc.Elements {
		switch {
		case top.Kind.IsInlineContainer():
			res[top] = top.Kind
		case top.Kind.IsList():
			for _, item := range top.Children {
				if el, ok := item.(*edtypes.Element); ok {
					res[el] = top.Kind
				}
			}
		case top.Kind == edtypes.KindTable:
			for _, row := range top.Children {
				r, ok := row.(*edtypes.Element)
				if !ok {
					continue
				}
				for _, cell := range r.Children {
					if el, ok := cell.(*edtypes.Element); ok {
						res[el] = edtypes.KindTableCell
					}
				}
			}
		}
	}
	return res
}

type blockRange struct {
	block    *edtypes.Element
	from, to int
}

// ranges возвращает участки выделения в каждом затронутом блоке.
func ranges(blocks []*edtypes.Element, start, end anchor) []blockRange {
	si, ei := slices.Index(blocks, start.block), slices.Index(blocks, end.block)
	if si < 0 || ei < 0 {
		return nil
	}

	res := make([]blockRange, 0, ei-si+1)
	for i := si; i <= ei; i++ {
		r := blockRange{block: blocks[i], to: blockLen(blocks[i])}
		if i == si {
			r.from = start.offset
		}
		if i == ei {
			r.to = end.offset
		}
		res = append(res, r)
	}
	return res
}

func leavesOf(block *edtypes.Element) []*edtypes.Text {
	res := make([]*edtypes.Text, 0, len(block.Children))
	for _, child := range block.Children {
		if t, ok := child.(*edtypes.Text); ok {
			res = append(res, t)
		}
	}
	return res
}

func blockLen(block *edtypes.Element) int {
	n := 0
	for _, t := range leavesOf(block) {
		n += t.Len()
	}
	return n
}

// splitRange разбивает листы блока на границах from и to и возвращает непустые листы внутри [from, to).
func splitRange(block *edtypes.Element, from, to int) []*edtypes.Text {
	var children []edtypes.Node
	var inside []*edtypes.Text
	pos := 0

	for _, child := range block.Children {
		t, ok := child.(*edtypes.Text)
		if !ok {
			children = append(children, child)
			continue
		}

		l := t.Len()
		s, e := pos, pos+l
		pos = e
		if l == 0 || e <= from || s >= to {
			children = append(children, t)
			continue
		}

		runes := []rune(t.Content)
		a, b := max(from, s)-s, min(to, e)-s
		if a > 0 {
			left := *t
			left.Content = string(runes[:a])
			children = append(children, &left)
		}
		mid := *t
		mid.Content = string(runes[a:b])
		children = append(children, &mid)
		inside = append(inside, &mid)
		if b < l {
			right := *t
			right.Content = string(runes[b:])
			children = append(children, &right)
		}
	}

	block.Children = children
	return inside
}

func caretIn(doc edtypes.Document, el *edtypes.Element) *edtypes.Range {
	path, ok := doc.PathOf(el)
	if !ok {
		return startCaret(doc)
	}
	leaf, ok := doc.FirstLeaf(path)
	if !ok {
		return startCaret(doc)
	}
	return edtypes.Caret(leaf, 0)
}

func startCaret(doc edtypes.Document) *edtypes.Range {
	leaf, ok := doc.FirstLeaf(edtypes.Path{0})
	if !ok {
		return nil
	}
	return edtypes.Caret(leaf, 0)
}
