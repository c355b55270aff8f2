// Пакет session реализует сессию редактирования описания: владеет документом, выделением и историей правок.
//
// Значение (HTML) разбирается один раз при создании сессии. Дальше сессия владеет содержимым и не перечитывает
// значение владельца, пока тот явно не вызовет Reset. Каждое изменение документа синхронно передается в onChange
// сериализованным HTML, ровно один раз и в порядке изменений. Изменения выделения onChange не вызывают.
//
// Сессия не потокобезопасна, параллельный доступ сериализует владелец (см. memory-store).
package session

import (
	"errors"
	"log/slog"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/commands"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// DefaultHistoryLimit - глубина истории отмены по умолчанию
const DefaultHistoryLimit = 100

var ErrInvalidSelection = errors.New("selection does not point to text")

type Option func(*Session)

// WithHistoryLimit ограничивает глубину истории отмены. Неположительное значение отключает историю.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		s.limit = limit
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

type snapshot struct {
	doc edtypes.Document
	sel *edtypes.Range
}

type Session struct {
	doc edtypes.Document
	sel *edtypes.Range

	// Отметки, переключенные свернутым выделением внутри текста. Применяются к следующему вводу.
	pending map[edtypes.Mark]bool

	undo  []snapshot
	redo  []snapshot
	limit int

	onChange func(html string)
	log      *slog.Logger
}

// New создает сессию и разбирает начальное значение.
func New(value string, onChange func(html string), opts ...Option) *Session {
	s := &Session{
		doc:      editor.Deserialize(value),
		limit:    DefaultHistoryLimit,
		onChange: onChange,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document возвращает копию текущего документа.
func (s *Session) Document() edtypes.Document {
	return s.doc.Clone()
}

// HTML возвращает сериализацию текущего документа.
func (s *Session) HTML() string {
	return editor.Serialize(s.doc)
}

func (s *Session) Selection() *edtypes.Range {
	return cloneRange(s.sel)
}

// Select меняет выделение. nil снимает выделение. Позиции должны указывать на текстовые листы.
func (s *Session) Select(rng *edtypes.Range) error {
	if rng != nil {
		if !s.validPoint(rng.Anchor) || !s.validPoint(rng.Focus) {
			return ErrInvalidSelection
		}
	}
	s.sel = cloneRange(rng)
	s.pending = nil
	return nil
}

func (s *Session) validPoint(p edtypes.Point) bool {
	t, ok := s.doc.TextAt(p.Path)
	return ok && p.Offset >= 0 && p.Offset <= t.Len()
}

// Reset заменяет содержимое новым значением владельца. История очищается, выделение снимается.
func (s *Session) Reset(value string) {
	doc := editor.Deserialize(value)
	changed := !edtypes.Equal(doc, s.doc)

	s.doc, s.sel, s.pending = doc, nil, nil
	s.undo, s.redo = nil, nil
	if changed {
		s.notify()
	}
}

// IsMarkActive учитывает отметки, переключенные для следующего ввода.
func (s *Session) IsMarkActive(mark edtypes.Mark) bool {
	active := commands.IsMarkActive(s.doc, s.sel, mark)
	if s.pending[mark] {
		return !active
	}
	return active
}

// BlockKind возвращает тип блока под курсором.
func (s *Session) BlockKind() (edtypes.Kind, bool) {
	return commands.BlockKindAt(s.doc, s.sel)
}

// InsertTable вставляет таблицу rows x cols. Размеры должны быть положительными.
func (s *Session) InsertTable(rows, cols int) bool {
	doc, sel := commands.InsertTable(s.doc, s.sel, rows, cols)
	return s.apply("insert-table", doc, sel)
}

// InsertText вставляет текст в позицию курсора с отметками под курсором и отложенными отметками.
func (s *Session) InsertText(text string) bool {
	marks := make(map[edtypes.Mark]bool)
	for _, m := range commands.MarksAt(s.doc, s.sel) {
		marks[m] = true
	}
	for m, v := range s.pending {
		if v {
			marks[m] = !marks[m]
		}
	}

	var list []edtypes.Mark
	for _, m := range edtypes.AllMarks {
		if marks[m] {
			list = append(list, m)
		}
	}

	doc, sel := commands.InsertTextWithMarks(s.doc, s.sel, text, list)
	return s.apply("insert-text", doc, sel)
}

// DeleteText удаляет выделенный текст.
func (s *Session) DeleteText() bool {
	doc, sel := commands.DeleteText(s.doc, s.sel)
	return s.apply("delete-text", doc, sel)
}

// apply фиксирует результат команды. Если документ не изменился, обновляется только выделение.
func (s *Session) apply(name string, doc edtypes.Document, sel *edtypes.Range) bool {
	if edtypes.Equal(doc, s.doc) {
		s.sel = sel
		return false
	}

	s.pushUndo()
	s.redo = nil
	s.doc, s.sel, s.pending = doc, sel, nil

	s.log.Debug("Editor command applied", "command", name)
	s.notify()
	return true
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange(editor.Serialize(s.doc))
	}
}

func cloneRange(r *edtypes.Range) *edtypes.Range {
	if r == nil {
		return nil
	}
	return &edtypes.Range{
		Anchor: edtypes.Point{Path: append(edtypes.Path(nil), r.Anchor.Path...), Offset: r.Anchor.Offset},
		Focus:  edtypes.Point{Path: append(edtypes.Path(nil), r.Focus.Path...), Offset: r.Focus.Offset},
	}
}
