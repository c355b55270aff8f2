package session

import (
	"strings"
)

// Hotkeys сопоставляет сочетания клавиш командам. Сочетания с отметками повторяют кнопки панели инструментов.
var Hotkeys = map[string]Command{
	"mod+b":       CmdBold,
	"mod+i":       CmdItalic,
	"mod+u":       CmdUnderline,
	"mod+shift+x": CmdStrikethrough,
	"mod+shift+7": CmdNumberedList,
	"mod+shift+8": CmdBulletedList,
	"mod+z":       CmdUndo,
	"mod+shift+z": CmdRedo,
	"mod+y":       CmdRedo,
}

// NormalizeKey приводит сочетание к виду "mod+alt+shift+key": ctrl, meta и cmd становятся mod, регистр не важен.
func NormalizeKey(key string) string {
	parts := strings.Split(strings.ToLower(strings.ReplaceAll(key, " ", "")), "+")
	var mod, alt, shift bool
	var rest []string
	for _, p := range parts {
		switch p {
		case "mod", "ctrl", "control", "meta", "cmd", "command":
			mod = true
		case "alt", "option":
			alt = true
		case "shift":
			shift = true
		case "":
		default:
			rest = append(rest, p)
		}
	}

	var res []string
	if mod {
		res = append(res, "mod")
	}
	if alt {
		res = append(res, "alt")
	}
	if shift {
		res = append(res, "shift")
	}
	return strings.Join(append(res, rest...), "+")
}

// HandleKey выполняет команду сочетания клавиш через тот же путь, что и панель инструментов.
// Возвращает false для неизвестного сочетания.
func (s *Session) HandleKey(key string) bool {
	cmd, ok := Hotkeys[NormalizeKey(key)]
	if !ok {
		return false
	}
	s.Exec(cmd)
	return true
}
