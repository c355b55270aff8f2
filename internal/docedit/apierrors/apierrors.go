// Пакет содержит каталог ошибок HTTP API редактора описаний. Каждая ошибка имеет код, HTTP статус и описание на английском и русском.
//
// Группы кодов:
//   - 1*** - общие ошибки запроса;
//   - 2*** - описания;
//   - 3*** - сессии редактирования;
//   - 4*** - команды редактора.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - generic errors
	ErrGeneric           = DefinedError{Code: 1000, StatusCode: http.StatusInternalServerError, Err: "internal error", RuErr: "Внутренняя ошибка сервера"}
	ErrBadRequest        = DefinedError{Code: 1001, StatusCode: http.StatusBadRequest, Err: "bad request", RuErr: "Некорректный запрос"}
	ErrValidation        = DefinedError{Code: 1002, StatusCode: http.StatusBadRequest, Err: "validation failed: %s", RuErr: "Ошибка валидации: %s"}
	ErrEntityTooLarge    = DefinedError{Code: 1003, StatusCode: http.StatusRequestEntityTooLarge, Err: "request entity too large", RuErr: "Слишком большой размер запроса"}
	ErrInvalidEntityType = DefinedError{Code: 1004, StatusCode: http.StatusBadRequest, Err: "invalid entity type %s", RuErr: "Неизвестный тип сущности %s"}
	ErrInvalidEntityID   = DefinedError{Code: 1005, StatusCode: http.StatusBadRequest, Err: "invalid entity id", RuErr: "Некорректный идентификатор сущности"}

	// 2*** - description errors
	ErrDescriptionNotFound = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "description not found", RuErr: "Описание не найдено"}
	ErrInvalidDocument     = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "invalid document: %s", RuErr: "Некорректная структура документа: %s"}

	// 3*** - session errors
	ErrSessionNotFound   = DefinedError{Code: 3001, StatusCode: http.StatusNotFound, Err: "editing session not found", RuErr: "Сессия редактирования не найдена или истекла"}
	ErrInvalidSessionID  = DefinedError{Code: 3002, StatusCode: http.StatusBadRequest, Err: "invalid session id", RuErr: "Некорректный идентификатор сессии"}
	ErrInvalidSelection  = DefinedError{Code: 3003, StatusCode: http.StatusBadRequest, Err: "selection points outside the document", RuErr: "Выделение указывает за пределы документа"}
	ErrSessionPersistent = DefinedError{Code: 3004, StatusCode: http.StatusInternalServerError, Err: "failed to persist session content", RuErr: "Не удалось сохранить содержимое сессии"}
	ErrSessionLimit      = DefinedError{Code: 3005, StatusCode: http.StatusTooManyRequests, Err: "open sessions limit reached", RuErr: "Достигнут лимит открытых сессий редактирования"}

	// 4*** - command errors
	ErrUnknownCommand  = DefinedError{Code: 4001, StatusCode: http.StatusBadRequest, Err: "unknown command %s", RuErr: "Неизвестная команда %s"}
	ErrUnknownHotkey   = DefinedError{Code: 4002, StatusCode: http.StatusBadRequest, Err: "unknown hotkey %s", RuErr: "Неизвестное сочетание клавиш %s"}
	ErrCommandRequired = DefinedError{Code: 4003, StatusCode: http.StatusBadRequest, Err: "command, key or text is required", RuErr: "Необходимо указать команду, сочетание клавиш или текст"}
)

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
		e.RuErr = fmt.Sprintf(e.RuErr, args...)
	} else {
		e.Err = strings.Replace(e.Err, "%s", "", -1)
		e.RuErr = strings.Replace(e.RuErr, "%s", "", -1)
	}
	return e
}
