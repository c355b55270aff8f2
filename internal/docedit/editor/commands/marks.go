package commands

import (
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// ToggleMark переключает отметку на всех листах, пересекающих выделение: если отметка уже стоит на всех, она снимается,
// иначе ставится на все. Листы разбиваются по границам выделения.
//
// Свернутое выделение переключает отметку только на пустом листе под курсором. В непустом тексте документ не меняется,
// отметку для следующего ввода запоминает вызывающий (см. session).
//
// Пути выделения адресуют листы, поэтому после разбиения исходный Range указывает на другие символы.
// Для повторной команды над тем же текстом передается возвращенное выделение.
func ToggleMark(doc edtypes.Document, sel *edtypes.Range, mark edtypes.Mark) (edtypes.Document, *edtypes.Range) {
	out, s, ok := prepare(doc, sel)
	if !ok {
		return doc, sel
	}

	blocks := inlineBlocks(out)
	start, end := s.edges(blocks)

	var targets []*edtypes.Text
	if start == end {
		if blockLen(start.block) != 0 {
			return doc, sel
		}
		targets = leavesOf(start.block)
	} else {
		rs := ranges(blocks, start, end)
		for _, r := range rs {
			targets = append(targets, splitRange(r.block, r.from, r.to)...)
		}
		// Выделены только пустые блоки
		if len(targets) == 0 {
			for _, r := range rs {
				if blockLen(r.block) == 0 {
					targets = append(targets, leavesOf(r.block)...)
				}
			}
		}
	}

	if len(targets) == 0 {
		return doc, sel
	}

	all := true
	for _, t := range targets {
		if !t.HasMark(mark) {
			all = false
			break
		}
	}
	for _, t := range targets {
		t.SetMark(mark, !all)
	}

	out.Normalize()
	return out, s.toRange(out)
}

// IsMarkActive - true, если отметка стоит на всех непустых листах выделения или на листе под курсором.
func IsMarkActive(doc edtypes.Document, sel *edtypes.Range, mark edtypes.Mark) bool {
	s, ok := resolve(doc, sel)
	if !ok {
		return false
	}

	blocks := inlineBlocks(doc)
	start, end := s.edges(blocks)
	if start == end {
		leaf := start.leaf()
		return leaf != nil && leaf.HasMark(mark)
	}

	found := false
	for _, r := range ranges(blocks, start, end) {
		pos := 0
		for _, t := range leavesOf(r.block) {
			from, to := pos, pos+t.Len()
			pos = to
			if t.Len() == 0 || to <= r.from || from >= r.to {
				continue
			}
			found = true
			if !t.HasMark(mark) {
				return false
			}
		}
	}
	return found
}

// MarksAt возвращает отметки листа в начале выделения. Их наследует вводимый текст.
func MarksAt(doc edtypes.Document, sel *edtypes.Range) []edtypes.Mark {
	s, ok := resolve(doc, sel)
	if !ok {
		return nil
	}
	start, _ := s.edges(inlineBlocks(doc))
	if leaf := start.leaf(); leaf != nil {
		return leaf.Marks()
	}
	return nil
}
