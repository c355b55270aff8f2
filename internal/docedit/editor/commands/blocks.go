package commands

import (
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// ToggleBlock переключает тип блоков выделения.
//
// Затрагиваются параграфы и пункты списков, блоки внутри ячеек таблиц не меняются.
// Переключение в параграф выносит выбранные пункты из списка, разрезая его по границе выделения: невыбранные соседние
// пункты остаются в своем списке. Переключение в список превращает выбранные блоки в пункты и оборачивает каждую
// непрерывную серию в новый список нужного типа. Если все выбранные блоки уже пункты списка этого типа, они
// возвращаются в параграфы. Соседние списки одного типа в результате сливаются.
func ToggleBlock(doc edtypes.Document, sel *edtypes.Range, kind edtypes.Kind) (edtypes.Document, *edtypes.Range) {
	if kind != edtypes.KindParagraph && !kind.IsList() {
		return doc, sel
	}

	out, s, ok := prepare(doc, sel)
	if !ok {
		return doc, sel
	}

	blocks := inlineBlocks(out)
	start, end := s.edges(blocks)
	kinds := containerKinds(out)

	selected := make(map[*edtypes.Element]bool)
	allTarget := true
	for _, r := range ranges(blocks, start, end) {
		current := kinds[r.block]
		if current == edtypes.KindTableCell {
			continue
		}
		selected[r.block] = true
		if current != kind {
			allTarget = false
		}
	}

	if len(selected) == 0 {
		return doc, sel
	}
	if kind == edtypes.KindParagraph && allTarget {
		return doc, sel
	}

	target := kind
	if allTarget {
		target = edtypes.KindParagraph
	}

	var res []*edtypes.Element
	// open - строящийся список для выбранных блоков, keep - остаток исходного списка с невыбранными пунктами.
	var open, keep *edtypes.Element

	tail := func(kind edtypes.Kind) *edtypes.Element {
		if n := len(res); n > 0 && res[n-1].Kind == kind {
			return res[n-1]
		}
		return nil
	}

	emit := func(el *edtypes.Element) {
		keep = nil
		if target == edtypes.KindParagraph {
			el.Kind = edtypes.KindParagraph
			res = append(res, el)
			open = nil
			return
		}
		el.Kind = edtypes.KindListItem
		if open == nil {
			if open = tail(target); open == nil {
				open = &edtypes.Element{Kind: target}
				res = append(res, open)
			}
		}
		open.Children = append(open.Children, el)
	}

	for _, top := range out.Elements {
		switch {
		case top.Kind.IsList():
			keep = nil
			for _, child := range top.Children {
				item, ok := child.(*edtypes.Element)
				if !ok {
					continue
				}
				if selected[item] {
					emit(item)
					continue
				}
				open = nil
				if keep == nil {
					if keep = tail(top.Kind); keep == nil {
						keep = &edtypes.Element{Kind: top.Kind}
						res = append(res, keep)
					}
				}
				keep.Children = append(keep.Children, item)
			}
			keep = nil
		case selected[top]:
			emit(top)
		default:
			open, keep = nil, nil
			res = append(res, top)
		}
	}

	out.Elements = res
	out.Normalize()
	return out, s.toRange(out)
}

// BlockKindAt возвращает тип блока в начале выделения: Paragraph, тип списка для пункта или TableCell.
func BlockKindAt(doc edtypes.Document, sel *edtypes.Range) (edtypes.Kind, bool) {
	s, ok := resolve(doc, sel)
	if !ok {
		return 0, false
	}
	start, _ := s.edges(inlineBlocks(doc))
	kind, ok := containerKinds(doc)[start.block]
	return kind, ok
}
