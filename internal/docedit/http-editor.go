package docedit

import (
	"net/http"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/plate"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/session"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/export"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/types"
	"github.com/labstack/echo/v4"
)

func (s *Services) AddEditorServices(g *echo.Group) {
	editorGroup := g.Group("editor/")

	editorGroup.POST("normalize/", s.normalizeValue)
	editorGroup.POST("validate/", s.validateDocument)
	editorGroup.GET("toolbar/", s.getToolbar)
}

// normalizeValue godoc
// @id normalizeValue
// @Summary Редактор: нормализация значения
// @Description Приводит HTML или Plate JSON к каноническому виду редактора без сохранения.
// @Tags Editor
// @Accept json
// @Produce json
// @Param data body DocumentRequest true "Значение редактора"
// @Success 200 {object} ConvertResponse "Каноническое значение"
// @Failure 400 {object} apierrors.DefinedError "Некорректный запрос"
// @Router /api/editor/normalize/ [post]
func (s *Services) normalizeValue(c echo.Context) error {
	var req DocumentRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidDocument.WithFormattedMessage(err.Error()))
	}

	html := req.Bind()
	doc := html.Document()
	md, err := exportMarkdown(html)
	if err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, ConvertResponse{
		HTML:     html.Body,
		Document: plate.ToValue(&doc),
		Markdown: md,
		Text:     html.StripTags(),
	})
}

// validateDocument godoc
// @id validateDocument
// @Summary Редактор: проверка структуры Plate JSON
// @Description Проверяет грамматику документа до нормализации: списки содержат пункты, таблицы строки, строки ячейки.
// @Tags Editor
// @Accept json
// @Produce json
// @Param data body []plate.PlateNode true "Plate JSON"
// @Success 204 "Документ корректен"
// @Failure 400 {object} apierrors.DefinedError "Некорректная структура"
// @Router /api/editor/validate/ [post]
func (s *Services) validateDocument(c echo.Context) error {
	var nodes []plate.PlateNode
	if err := c.Bind(&nodes); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidDocument.WithFormattedMessage(err.Error()))
	}

	if err := edtypes.Validate(plate.FromValue(nodes)); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidDocument.WithFormattedMessage(err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

// getToolbar godoc
// @id getToolbar
// @Summary Редактор: команды панели инструментов и горячие клавиши
// @Tags Editor
// @Produce json
// @Success 200 {object} map[string]interface{} "Команды"
// @Router /api/editor/toolbar/ [get]
func (s *Services) getToolbar(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"toolbar": session.Toolbar,
		"table":   session.TableCommands,
		"hotkeys": session.Hotkeys,
	})
}

func exportMarkdown(html types.RedactorHTML) (string, error) {
	return export.Markdown(html.Document())
}
