package docedit

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/dao"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/commands"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/session"
	store "github.com/aisa-it/aiplan/docedit/internal/docedit/memory-store"
	errStack "github.com/aisa-it/aiplan/docedit/internal/docedit/stack-error"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/types"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
)

// SessionContext - контекст запроса к открытой сессии редактирования.
type SessionContext struct {
	echo.Context
	SessionID uuid.UUID
}

func (s *Services) AddSessionServices(g *echo.Group) {
	sessionGroup := g.Group("sessions/:sessionId/", s.SessionMiddleware)

	sessionGroup.GET("", s.getSession)
	sessionGroup.DELETE("", s.closeSession)
	sessionGroup.POST("select/", s.selectInSession)
	sessionGroup.POST("commands/", s.execSessionCommand)
}

func (s *Services) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.FromString(c.Param("sessionId"))
		if err != nil {
			return EErrorDefined(c, apierrors.ErrInvalidSessionID)
		}
		return next(SessionContext{c, id})
	}
}

// openSession godoc
// @id openSession
// @Summary Сессии: открытие сессии редактирования
// @Description Разбирает сохраненное описание один раз и открывает сессию. Каждое изменение документа сессии сохраняется в описание.
// @Tags Sessions
// @Produce json
// @Param entityType path string true "Тип сущности" Enums(issue, project, doc, sprint)
// @Param entityId path string true "ID сущности"
// @Success 201 {object} SessionResponse "Сессия"
// @Failure 400 {object} apierrors.DefinedError "Некорректный запрос"
// @Router /api/descriptions/{entityType}/{entityId}/sessions/ [post]
func (s *Services) openSession(c echo.Context) error {
	dc := c.(DescriptionContext)

	// Локальный лимит дополнительно проверяется атомарно в sessions.Open
	if !s.limiter.CanOpenSession(string(dc.EntityType), dc.EntityID, s.sessions.Len()) {
		return EErrorDefined(c, apierrors.ErrSessionLimit)
	}

	value := ""
	d, err := dao.GetDescription(s.db, dc.EntityType, dc.EntityID)
	switch {
	case err == nil:
		value = d.HTML.Body
	case !errors.Is(err, dao.ErrDescriptionNotFound):
		return EError(c, errStack.TrackErrorStack(err).AddContext("entity_id", dc.EntityID))
	}

	// entry присваивается до первого вызова onChange: при создании сессии он не вызывается
	var entry *store.Entry
	sess := session.New(value, func(html string) {
		_, err := s.saveDescription(dc.EntityType, dc.EntityID, types.RedactorHTML{Body: html, AlreadySanitized: true})
		if err != nil {
			s.metrics.PersistFailures.Inc()
			errStack.GetError(nil, err)
		}
		entry.PersistErr = err
	},
		session.WithHistoryLimit(s.cfg.HistoryLimit),
		session.WithLogger(slog.Default().With("entity_type", dc.EntityType, "entity_id", dc.EntityID)),
	)

	entry, err = s.sessions.Open(string(dc.EntityType), dc.EntityID, sess)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, NewSessionResponse(entry, false))
}

// getSession godoc
// @id getSession
// @Summary Сессии: состояние сессии
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "ID сессии"
// @Success 200 {object} SessionResponse "Сессия"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Router /api/sessions/{sessionId}/ [get]
func (s *Services) getSession(c echo.Context) error {
	sc := c.(SessionContext)

	var res SessionResponse
	if err := s.sessions.Do(sc.SessionID, func(e *store.Entry) error {
		res = NewSessionResponse(e, false)
		return nil
	}); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// closeSession godoc
// @id closeSession
// @Summary Сессии: закрытие сессии
// @Tags Sessions
// @Param sessionId path string true "ID сессии"
// @Success 204 "Сессия закрыта"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Router /api/sessions/{sessionId}/ [delete]
func (s *Services) closeSession(c echo.Context) error {
	sc := c.(SessionContext)

	if err := s.sessions.Close(sc.SessionID); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// selectInSession godoc
// @id selectInSession
// @Summary Сессии: изменение выделения
// @Description Меняет только выделение, описание не сохраняется.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "ID сессии"
// @Param data body SelectRequest true "Выделение, null снимает выделение"
// @Success 200 {object} SessionResponse "Сессия"
// @Failure 400 {object} apierrors.DefinedError "Выделение вне документа"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Router /api/sessions/{sessionId}/select/ [post]
func (s *Services) selectInSession(c echo.Context) error {
	sc := c.(SessionContext)

	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}

	var res SessionResponse
	if err := s.sessions.Do(sc.SessionID, func(e *store.Entry) error {
		if err := e.Session.Select(req.Selection); err != nil {
			return apierrors.ErrInvalidSelection
		}
		res = NewSessionResponse(e, false)
		return nil
	}); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// execSessionCommand godoc
// @id execSessionCommand
// @Summary Сессии: выполнение команды
// @Description Выполняет команду панели инструментов, горячую клавишу, ввод или удаление текста.
// @Description Изменение документа сохраняется в описание через onChange сессии.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "ID сессии"
// @Param data body CommandRequest true "Команда"
// @Success 200 {object} SessionResponse "Сессия после команды"
// @Failure 400 {object} apierrors.DefinedError "Некорректная команда"
// @Failure 404 {object} apierrors.DefinedError "Сессия не найдена"
// @Router /api/sessions/{sessionId}/commands/ [post]
func (s *Services) execSessionCommand(c echo.Context) error {
	sc := c.(SessionContext)

	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if err := c.Validate(req); err != nil {
		return EErrorValidation(c, err)
	}
	if req.Command == "" && req.Key == "" && req.Text == nil && !req.Delete {
		return EErrorDefined(c, apierrors.ErrCommandRequired)
	}

	var res SessionResponse
	if err := s.sessions.Do(sc.SessionID, func(e *store.Entry) error {
		if req.Selection != nil {
			if err := e.Session.Select(req.Selection); err != nil {
				return apierrors.ErrInvalidSelection
			}
		}

		e.PersistErr = nil
		name, changed := runCommand(e.Session, req)
		s.metrics.command(name, changed)

		if e.PersistErr != nil {
			return apierrors.ErrSessionPersistent
		}
		res = NewSessionResponse(e, changed)
		return nil
	}); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// runCommand выполняет действие запроса. Возвращает имя действия для метрик и признак изменения документа.
func runCommand(sess *session.Session, req CommandRequest) (string, bool) {
	switch {
	case req.Command != "":
		cmd, _ := session.ParseCommand(req.Command)
		if cmd == session.CmdInsertTable && (req.Rows > 0 || req.Cols > 0) {
			rows, cols := req.Rows, req.Cols
			if rows == 0 {
				rows = commands.DefaultTableRows
			}
			if cols == 0 {
				cols = commands.DefaultTableCols
			}
			return string(cmd), sess.InsertTable(rows, cols)
		}
		return string(cmd), sess.Exec(cmd)
	case req.Key != "":
		// HandleKey сообщает только, обработано ли сочетание
		before := sess.HTML()
		cmd := session.Hotkeys[session.NormalizeKey(req.Key)]
		sess.HandleKey(req.Key)
		return string(cmd), before != sess.HTML()
	case req.Text != nil:
		return "insert-text", sess.InsertText(*req.Text)
	default:
		return "delete-text", sess.DeleteText()
	}
}
