package edtypes

import (
	"slices"
	"strings"
)

// Path - индексы от корня документа до узла. Path{2, 0, 1} - второй лист первого пункта третьего блока.
type Path []int

// Child возвращает путь до i-го ребенка.
func (p Path) Child(i int) Path {
	res := make(Path, len(p)+1)
	copy(res, p)
	res[len(p)] = i
	return res
}

// Parent возвращает путь до родителя. Для пути верхнего уровня - пустой путь.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p[:len(p)-1])
}

func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// ComparePaths сравнивает пути в порядке обхода документа. Предок идет раньше потомка.
func ComparePaths(a, b Path) int {
	return slices.Compare(a, b)
}

// Point - позиция внутри текстового листа. Offset считается в рунах.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

// ComparePoints сравнивает позиции в порядке обхода документа.
func ComparePoints(a, b Point) int {
	if c := ComparePaths(a.Path, b.Path); c != 0 {
		return c
	}
	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// Range - выделение. Anchor может стоять после Focus (выделение справа налево).
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Caret создает свернутое выделение (курсор).
func Caret(path Path, offset int) *Range {
	p := Point{Path: slices.Clone(path), Offset: offset}
	return &Range{Anchor: p, Focus: Point{Path: slices.Clone(path), Offset: offset}}
}

// Span создает выделение от start до end.
func Span(start, end Point) *Range {
	return &Range{Anchor: start, Focus: end}
}

func (r *Range) IsCollapsed() bool {
	return ComparePoints(r.Anchor, r.Focus) == 0
}

// Edges возвращает начало и конец выделения в порядке документа.
func (r *Range) Edges() (Point, Point) {
	if ComparePoints(r.Anchor, r.Focus) <= 0 {
		return r.Anchor, r.Focus
	}
	return r.Focus, r.Anchor
}

// Leaf - текстовый лист с путем до него.
type Leaf struct {
	Path Path
	Text *Text
}

// NodeAt возвращает узел по пути.
func (d Document) NodeAt(path Path) (Node, bool) {
	if len(path) == 0 || path[0] < 0 || path[0] >= len(d.Elements) {
		return nil, false
	}
	var cur Node = d.Elements[path[0]]
	for _, i := range path[1:] {
		el, ok := cur.(*Element)
		if !ok || i < 0 || i >= len(el.Children) {
			return nil, false
		}
		cur = el.Children[i]
	}
	return cur, true
}

func (d Document) ElementAt(path Path) (*Element, bool) {
	n, ok := d.NodeAt(path)
	if !ok {
		return nil, false
	}
	el, ok := n.(*Element)
	return el, ok
}

func (d Document) TextAt(path Path) (*Text, bool) {
	n, ok := d.NodeAt(path)
	if !ok {
		return nil, false
	}
	t, ok := n.(*Text)
	return t, ok
}

// Leaves возвращает все текстовые листы в порядке обхода.
func (d Document) Leaves() []Leaf {
	var res []Leaf
	for i, el := range d.Elements {
		res = appendLeaves(res, el, Path{i})
	}
	return res
}

func appendLeaves(res []Leaf, n Node, path Path) []Leaf {
	switch v := n.(type) {
	case *Text:
		res = append(res, Leaf{Path: path, Text: v})
	case *Element:
		for i, child := range v.Children {
			res = appendLeaves(res, child, path.Child(i))
		}
	}
	return res
}

// FirstLeaf возвращает путь до первого листа внутри узла.
func (d Document) FirstLeaf(path Path) (Path, bool) {
	n, ok := d.NodeAt(path)
	if !ok {
		return nil, false
	}
	for {
		switch v := n.(type) {
		case *Text:
			return path, true
		case *Element:
			if len(v.Children) == 0 {
				return nil, false
			}
			path = path.Child(0)
			n = v.Children[0]
		}
	}
}

// PathOf ищет узел по указателю.
func (d Document) PathOf(target Node) (Path, bool) {
	for i, el := range d.Elements {
		if p, ok := findPath(el, target, Path{i}); ok {
			return p, true
		}
	}
	return nil, false
}

func findPath(n Node, target Node, path Path) (Path, bool) {
	if n == target {
		return path, true
	}
	if el, ok := n.(*Element); ok {
		for i, child := range el.Children {
			if p, ok := findPath(child, target, path.Child(i)); ok {
				return p, true
			}
		}
	}
	return nil, false
}

// PlainText возвращает текст документа, блоки разделены переводом строки.
func (d Document) PlainText() string {
	var lines []string
	for _, el := range d.Elements {
		lines = appendLines(lines, el)
	}
	return strings.Join(lines, "\n")
}

func appendLines(lines []string, el *Element) []string {
	if el.Kind.IsInlineContainer() {
		var sb strings.Builder
		for _, t := range flattenTexts(el.Children) {
			sb.WriteString(t.Content)
		}
		return append(lines, sb.String())
	}
	for _, child := range el.Children {
		if c, ok := child.(*Element); ok {
			lines = appendLines(lines, c)
		}
	}
	return lines
}
