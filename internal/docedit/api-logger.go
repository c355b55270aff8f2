// Возврат ошибок API с логированием контекста запроса.
package docedit

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	errStack "github.com/aisa-it/aiplan/docedit/internal/docedit/stack-error"
	"github.com/labstack/echo/v4"
)

// EError возвращает DefinedError как есть, прочие ошибки логируются и отдаются как ErrGeneric.
func EError(c echo.Context, err error) error {
	var defined apierrors.DefinedError
	if errors.As(err, &defined) {
		return EErrorDefined(c, defined)
	}

	if err == nil {
		slog.Error("Unknown API error",
			"method", c.Request().Method,
			"url", c.Request().URL,
			getCallerFile(),
		)
	} else {
		var te *errStack.TrackerError
		if errors.As(err, &te) {
			errStack.GetError(c, err)
		} else {
			slog.Error("API error",
				"err", err,
				"method", c.Request().Method,
				"url", c.Request().URL,
				getCallerFile(),
			)
		}
	}
	return EErrorDefined(c, apierrors.ErrGeneric)
}

// EErrorMsgStatus возвращает ошибку со статусом status. 404 не логируется.
func EErrorMsgStatus(c echo.Context, err error, status int) error {
	if status == http.StatusRequestEntityTooLarge {
		return EErrorDefined(c, apierrors.ErrEntityTooLarge)
	}

	er := apierrors.ErrGeneric
	er.StatusCode = status
	if err != nil {
		er.Err = err.Error()
	}

	if status != http.StatusNotFound {
		slog.Error("API error",
			"err", err,
			"method", c.Request().Method,
			slog.Int("status", status),
			"url", c.Request().URL,
			getCallerFile(),
		)
	}
	return EErrorDefined(c, er)
}

// EErrorValidation отдает ошибку валидации запроса с текстом валидатора.
func EErrorValidation(c echo.Context, err error) error {
	return EErrorDefined(c, apierrors.ErrValidation.WithFormattedMessage(err.Error()))
}

// EErrorDefined возвращает JSON-ответ с кодом статуса и сообщением об ошибке. Если код статуса не определен, используется 400 Bad Request.
func EErrorDefined(c echo.Context, err apierrors.DefinedError) error {
	if http.StatusText(err.StatusCode) == "" {
		err.StatusCode = http.StatusBadRequest
	}
	return c.JSON(err.StatusCode, err)
}

func getCallerFile() slog.Attr {
	_, path, no, ok := runtime.Caller(2)
	if !ok {
		return slog.Attr{}
	}
	_, file := filepath.Split(path)
	return slog.String("caller", fmt.Sprintf("%s:%d", file, no))
}
