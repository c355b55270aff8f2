package session

import (
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/commands"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

// Command - команда панели инструментов редактора.
type Command string

const (
	CmdBold            Command = "bold"
	CmdItalic          Command = "italic"
	CmdUnderline       Command = "underline"
	CmdStrikethrough   Command = "strikethrough"
	CmdParagraph       Command = "paragraph"
	CmdBulletedList    Command = "bulleted-list"
	CmdNumberedList    Command = "numbered-list"
	CmdInsertTable     Command = "insert-table"
	CmdUndo            Command = "undo"
	CmdRedo            Command = "redo"
	CmdInsertRow       Command = "insert-row"
	CmdInsertRowAbove  Command = "insert-row-above"
	CmdRemoveRow       Command = "remove-row"
	CmdInsertColumn    Command = "insert-column"
	CmdInsertColBefore Command = "insert-column-before"
	CmdRemoveColumn    Command = "remove-column"
	CmdMergeCells      Command = "merge-cells"
	CmdSplitCell       Command = "split-cell"
)

// Toolbar - кнопки панели инструментов в порядке отображения.
var Toolbar = []Command{
	CmdBold, CmdItalic, CmdUnderline, CmdStrikethrough,
	CmdBulletedList, CmdNumberedList, CmdInsertTable,
	CmdUndo, CmdRedo,
}

// TableCommands - команды контекстного меню таблицы.
var TableCommands = []Command{
	CmdInsertRow, CmdInsertRowAbove, CmdRemoveRow,
	CmdInsertColumn, CmdInsertColBefore, CmdRemoveColumn,
	CmdMergeCells, CmdSplitCell,
}

var markCommands = map[Command]edtypes.Mark{
	CmdBold:          edtypes.MarkBold,
	CmdItalic:        edtypes.MarkItalic,
	CmdUnderline:     edtypes.MarkUnderline,
	CmdStrikethrough: edtypes.MarkStrikethrough,
}

var blockCommands = map[Command]edtypes.Kind{
	CmdParagraph:    edtypes.KindParagraph,
	CmdBulletedList: edtypes.KindBulletedList,
	CmdNumberedList: edtypes.KindNumberedList,
}

type transform func(edtypes.Document, *edtypes.Range) (edtypes.Document, *edtypes.Range)

var tableCommands = map[Command]transform{
	CmdInsertRow: func(d edtypes.Document, r *edtypes.Range) (edtypes.Document, *edtypes.Range) {
		return commands.InsertRow(d, r, false)
	},
	CmdInsertRowAbove: func(d edtypes.Document, r *edtypes.Range) (edtypes.Document, *edtypes.Range) {
		return commands.InsertRow(d, r, true)
	},
	CmdRemoveRow: commands.RemoveRow,
	CmdInsertColumn: func(d edtypes.Document, r *edtypes.Range) (edtypes.Document, *edtypes.Range) {
		return commands.InsertColumn(d, r, false)
	},
	CmdInsertColBefore: func(d edtypes.Document, r *edtypes.Range) (edtypes.Document, *edtypes.Range) {
		return commands.InsertColumn(d, r, true)
	},
	CmdRemoveColumn: commands.RemoveColumn,
	CmdMergeCells:   commands.MergeCells,
	CmdSplitCell:    commands.SplitCell,
}

// ParseCommand возвращает команду по имени.
func ParseCommand(raw string) (Command, bool) {
	cmd := Command(raw)
	if _, ok := markCommands[cmd]; ok {
		return cmd, true
	}
	if _, ok := blockCommands[cmd]; ok {
		return cmd, true
	}
	if _, ok := tableCommands[cmd]; ok {
		return cmd, true
	}
	switch cmd {
	case CmdInsertTable, CmdUndo, CmdRedo:
		return cmd, true
	}
	return "", false
}

// Exec выполняет команду панели инструментов. Возвращает true, если документ изменился.
func (s *Session) Exec(cmd Command) bool {
	if mark, ok := markCommands[cmd]; ok {
		return s.toggleMark(mark)
	}
	if kind, ok := blockCommands[cmd]; ok {
		doc, sel := commands.ToggleBlock(s.doc, s.sel, kind)
		return s.apply(string(cmd), doc, sel)
	}
	if fn, ok := tableCommands[cmd]; ok {
		doc, sel := fn(s.doc, s.sel)
		return s.apply(string(cmd), doc, sel)
	}

	switch cmd {
	case CmdInsertTable:
		return s.InsertTable(commands.DefaultTableRows, commands.DefaultTableCols)
	case CmdUndo:
		return s.Undo()
	case CmdRedo:
		return s.Redo()
	}

	s.log.Warn("Unknown editor command", "command", cmd)
	return false
}

// toggleMark переключает отметку. Курсор внутри текста не меняет документ: отметка откладывается до следующего ввода.
func (s *Session) toggleMark(mark edtypes.Mark) bool {
	doc, sel := commands.ToggleMark(s.doc, s.sel, mark)
	if s.sel != nil && s.sel.IsCollapsed() && edtypes.Equal(doc, s.doc) {
		if s.pending == nil {
			s.pending = make(map[edtypes.Mark]bool)
		}
		s.pending[mark] = !s.pending[mark]
		return false
	}
	return s.apply(mark.String(), doc, sel)
}
