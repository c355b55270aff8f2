// Ошибка с трассой вызовов и контекстом для логирования в обработчиках HTTP.
package stack_error

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/labstack/echo/v4"
)

// TrackerError накапливает точки, через которые прошла ошибка, и контекст (id описания, сессии и т.п.).
type TrackerError struct {
	Context  map[string]any
	ErrStack []slog.Attr
	cause    error
}

// TrackErrorStack добавляет место вызова в трассу. Повторный вызов с той же ошибкой дополняет существующую трассу.
func TrackErrorStack(err error) *TrackerError {
	if err == nil {
		return nil
	}
	var te *TrackerError
	if errors.As(err, &te) {
		te.ErrStack = append(te.ErrStack, callerAttr(err))
		return te
	}

	te = &TrackerError{
		Context:  make(map[string]any),
		ErrStack: []slog.Attr{callerAttr(err)},
		cause:    err,
	}
	return te
}

// AddContext не перезаписывает уже добавленный ключ: значение ближе к источнику ошибки важнее.
func (te *TrackerError) AddContext(k string, v any) *TrackerError {
	if _, ok := te.Context[k]; !ok {
		te.Context[k] = v
	}
	return te
}

func (te *TrackerError) Error() string {
	if te.cause != nil {
		return te.cause.Error()
	}
	return "TrackerError"
}

func (te *TrackerError) Unwrap() error {
	return te.cause
}

// GetError пишет ошибку в лог вместе с трассой, контекстом и запросом.
func GetError(c echo.Context, err error) {
	var te *TrackerError
	var attrs []any

	if errors.As(err, &te) {
		attrs = te.attrs()
	} else {
		attrs = []any{slog.String("raw_error", err.Error())}
	}

	if c != nil {
		attrs = append(attrs,
			slog.String("method", c.Request().Method),
			slog.String("url", c.Request().URL.String()))
	}

	slog.With(attrs...).Error("stack error")
}

func (te *TrackerError) attrs() []any {
	res := make([]any, 0, len(te.Context)+1)
	for k, v := range te.Context {
		res = append(res, slog.Any(k, v))
	}
	trace := make([]any, 0, len(te.ErrStack))
	for _, a := range te.ErrStack {
		trace = append(trace, a)
	}
	return append(res, slog.Group("stack", trace...))
}

func callerAttr(err error) slog.Attr {
	_, path, no, ok := runtime.Caller(2)
	if !ok {
		return slog.String("trace", "unknown")
	}
	_, file := filepath.Split(path)
	return slog.String(fmt.Sprintf("%s:%d", file, no), err.Error())
}
