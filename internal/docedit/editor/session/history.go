package session

func (s *Session) pushUndo() {
	if s.limit <= 0 {
		return
	}
	s.undo = append(s.undo, snapshot{doc: s.doc, sel: s.sel})
	if len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
}

func (s *Session) CanUndo() bool {
	return len(s.undo) > 0
}

func (s *Session) CanRedo() bool {
	return len(s.redo) > 0
}

// Undo возвращает документ и выделение к состоянию до последней правки.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}

	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, snapshot{doc: s.doc, sel: s.sel})

	s.doc, s.sel, s.pending = prev.doc, prev.sel, nil
	s.notify()
	return true
}

// Redo повторяет отмененную правку.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}

	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, snapshot{doc: s.doc, sel: s.sel})

	s.doc, s.sel, s.pending = next.doc, next.sel, nil
	s.notify()
	return true
}
