// Валидация запросов API через go-playground/validator.
package docedit

import (
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/session"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/types"
	"github.com/go-playground/validator"
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	if err := v.RegisterValidation("entityType", entityTypeValidator); err != nil {
		return nil
	}
	if err := v.RegisterValidation("editorCommand", editorCommandValidator); err != nil {
		return nil
	}
	if err := v.RegisterValidation("hotkey", hotkeyValidator); err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		if _, ok := err.(validator.ValidationErrors); !ok {
			return nil
		}
		return err
	}
	return nil
}

func entityTypeValidator(fl validator.FieldLevel) bool {
	return types.EntityType(fl.Field().String()).Valid()
}

func editorCommandValidator(fl validator.FieldLevel) bool {
	_, ok := session.ParseCommand(fl.Field().String())
	return ok
}

func hotkeyValidator(fl validator.FieldLevel) bool {
	_, ok := session.Hotkeys[session.NormalizeKey(fl.Field().String())]
	return ok
}
