package docedit

import (
	"errors"
	"net/http"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/dao"
	errStack "github.com/aisa-it/aiplan/docedit/internal/docedit/stack-error"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/types"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
)

// DescriptionContext - контекст запроса к описанию с разобранным адресом сущности.
type DescriptionContext struct {
	echo.Context
	EntityType types.EntityType
	EntityID   uuid.UUID
}

func (s *Services) AddDescriptionServices(g *echo.Group) {
	descGroup := g.Group("descriptions/:entityType/:entityId/", s.DescriptionMiddleware)

	descGroup.GET("", s.getDescription)
	descGroup.PUT("", s.updateDescription)
	descGroup.DELETE("", s.deleteDescription)
	descGroup.GET("markdown/", s.getDescriptionMarkdown)
	descGroup.POST("sessions/", s.openSession)
}

func (s *Services) DescriptionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params EntityParams
		if err := (&echo.DefaultBinder{}).BindPathParams(c, &params); err != nil {
			return EErrorDefined(c, apierrors.ErrBadRequest)
		}
		if !types.EntityType(params.EntityType).Valid() {
			return EErrorDefined(c, apierrors.ErrInvalidEntityType.WithFormattedMessage(params.EntityType))
		}
		if err := c.Validate(params); err != nil {
			return EErrorDefined(c, apierrors.ErrInvalidEntityID)
		}

		entityType, entityID := params.Bind()
		return next(DescriptionContext{c, entityType, entityID})
	}
}

// getDescription godoc
// @id getDescription
// @Summary Описания: получение описания
// @Description Возвращает описание сущности. Отсутствующее описание возвращается пустым документом.
// @Tags Descriptions
// @Produce json
// @Param entityType path string true "Тип сущности" Enums(issue, project, doc, sprint)
// @Param entityId path string true "ID сущности"
// @Success 200 {object} DescriptionResponse "Описание"
// @Failure 400 {object} apierrors.DefinedError "Некорректный запрос"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/descriptions/{entityType}/{entityId}/ [get]
func (s *Services) getDescription(c echo.Context) error {
	dc := c.(DescriptionContext)

	d, err := dao.GetDescription(s.db, dc.EntityType, dc.EntityID)
	if err != nil && !errors.Is(err, dao.ErrDescriptionNotFound) {
		return EError(c, errStack.TrackErrorStack(err).AddContext("entity_id", dc.EntityID))
	}
	return c.JSON(http.StatusOK, NewDescriptionResponse(dc.EntityType, dc.EntityID, d))
}

// updateDescription godoc
// @id updateDescription
// @Summary Описания: сохранение описания
// @Description Очищает, нормализует и сохраняет значение редактора. Принимает HTML или Plate JSON.
// @Tags Descriptions
// @Accept json
// @Produce json
// @Param entityType path string true "Тип сущности" Enums(issue, project, doc, sprint)
// @Param entityId path string true "ID сущности"
// @Param data body DocumentRequest true "Значение редактора"
// @Success 200 {object} DescriptionResponse "Сохраненное описание"
// @Failure 400 {object} apierrors.DefinedError "Некорректный запрос"
// @Failure 413 {object} apierrors.DefinedError "Слишком большой запрос"
// @Router /api/descriptions/{entityType}/{entityId}/ [put]
func (s *Services) updateDescription(c echo.Context) error {
	dc := c.(DescriptionContext)

	var req DocumentRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidDocument.WithFormattedMessage(err.Error()))
	}
	if req.Empty() {
		return EErrorDefined(c, apierrors.ErrValidation.WithFormattedMessage("html or document is required"))
	}

	d, err := s.saveDescription(dc.EntityType, dc.EntityID, req.Bind())
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, NewDescriptionResponse(dc.EntityType, dc.EntityID, d))
}

// deleteDescription godoc
// @id deleteDescription
// @Summary Описания: удаление описания
// @Description Удаляет описание и закрывает открытые для него сессии редактирования.
// @Tags Descriptions
// @Param entityType path string true "Тип сущности" Enums(issue, project, doc, sprint)
// @Param entityId path string true "ID сущности"
// @Success 204 "Описание удалено"
// @Router /api/descriptions/{entityType}/{entityId}/ [delete]
func (s *Services) deleteDescription(c echo.Context) error {
	dc := c.(DescriptionContext)

	// Сессии закрываются до удаления, иначе выполняющаяся команда сохранит описание заново
	s.sessions.CloseEntity(string(dc.EntityType), dc.EntityID)
	if err := dao.DeleteDescription(s.db, dc.EntityType, dc.EntityID); err != nil {
		return EError(c, errStack.TrackErrorStack(err).AddContext("entity_id", dc.EntityID))
	}
	return c.NoContent(http.StatusNoContent)
}

// getDescriptionMarkdown godoc
// @id getDescriptionMarkdown
// @Summary Описания: экспорт в Markdown
// @Tags Descriptions
// @Produce plain
// @Param entityType path string true "Тип сущности" Enums(issue, project, doc, sprint)
// @Param entityId path string true "ID сущности"
// @Success 200 {string} string "Markdown"
// @Router /api/descriptions/{entityType}/{entityId}/markdown/ [get]
func (s *Services) getDescriptionMarkdown(c echo.Context) error {
	dc := c.(DescriptionContext)

	html := types.NewRedactorHTML("")
	d, err := dao.GetDescription(s.db, dc.EntityType, dc.EntityID)
	switch {
	case err == nil:
		html = d.HTML
	case !errors.Is(err, dao.ErrDescriptionNotFound):
		return EError(c, errStack.TrackErrorStack(err).AddContext("entity_id", dc.EntityID))
	}

	md, err := exportMarkdown(html)
	if err != nil {
		return EError(c, err)
	}
	return c.Blob(http.StatusOK, "text/markdown; charset=UTF-8", []byte(md))
}

func (s *Services) saveDescription(entityType types.EntityType, entityID uuid.UUID, html types.RedactorHTML) (*dao.Description, error) {
	d, err := dao.SaveDescription(s.db, entityType, entityID, html)
	if err != nil {
		return nil, errStack.TrackErrorStack(err).
			AddContext("entity_type", entityType).
			AddContext("entity_id", entityID)
	}
	s.metrics.Saved.WithLabelValues(string(entityType)).Inc()
	return d, nil
}
