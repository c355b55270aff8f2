package commands

import (
	"unicode/utf8"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// InsertText вставляет текст в позицию курсора с отметками листа под курсором.
func InsertText(doc edtypes.Document, sel *edtypes.Range, text string) (edtypes.Document, *edtypes.Range) {
	return InsertTextWithMarks(doc, sel, text, MarksAt(doc, sel))
}

// InsertTextWithMarks вставляет текст с заданными отметками. Выделение внутри одного блока сначала удаляется,
// выделение через несколько блоков сворачивается к началу.
func InsertTextWithMarks(doc edtypes.Document, sel *edtypes.Range, text string, marks []edtypes.Mark) (edtypes.Document, *edtypes.Range) {
	if text == "" {
		return doc, sel
	}

	out, s, ok := prepare(doc, sel)
	if !ok {
		return doc, sel
	}

	start, end := s.edges(inlineBlocks(out))
	if start.block == end.block && start.offset != end.offset {
		deleteRange(start.block, start.offset, end.offset)
	}

	insertAt(start.block, start.offset, edtypes.NewText(text, marks...))
	out.Normalize()

	caret := anchor{block: start.block, offset: start.offset + utf8.RuneCountInString(text)}
	return out, selection{anchor: caret, focus: caret}.toRange(out)
}

// DeleteText удаляет выделенный текст внутри одного блока.
func DeleteText(doc edtypes.Document, sel *edtypes.Range) (edtypes.Document, *edtypes.Range) {
	out, s, ok := prepare(doc, sel)
	if !ok {
		return doc, sel
	}

	start, end := s.edges(inlineBlocks(out))
	if start.block != end.block || start.offset == end.offset {
		return doc, sel
	}

	deleteRange(start.block, start.offset, end.offset)
	out.Normalize()
	return out, selection{anchor: start, focus: start}.toRange(out)
}

func deleteRange(block *edtypes.Element, from, to int) {
	removed := make(map[*edtypes.Text]bool)
	for _, t := range splitRange(block, from, to) {
		removed[t] = true
	}

	children := block.Children[:0]
	for _, child := range block.Children {
		if t, ok := child.(*edtypes.Text); ok && removed[t] {
			continue
		}
		children = append(children, child)
	}
	block.Children = children
}

func insertAt(block *edtypes.Element, offset int, leaf *edtypes.Text) {
	var before, after []edtypes.Node
	pos := 0

	for _, child := range block.Children {
		t, ok := child.(*edtypes.Text)
		if !ok {
			after = append(after, child)
			continue
		}

		l := t.Len()
		switch {
		case pos+l <= offset:
			before = append(before, t)
		case pos >= offset:
			after = append(after, t)
		default:
			runes := []rune(t.Content)
			left, right := *t, *t
			left.Content = string(runes[:offset-pos])
			right.Content = string(runes[offset-pos:])
			before = append(before, &left)
			after = append(after, &right)
		}
		pos += l
	}

	children := make([]edtypes.Node, 0, len(before)+len(after)+1)
	children = append(children, before...)
	children = append(children, leaf)
	children = append(children, after...)
	block.Children = children
}
