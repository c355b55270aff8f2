// Запросы и ответы HTTP API редактора описаний.
package docedit

import (
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/dao"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/plate"
	store "github.com/aisa-it/aiplan/docedit/internal/docedit/memory-store"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/types"
	"github.com/gofrs/uuid"
)

// EntityParams - адрес описания в пути запроса.
type EntityParams struct {
	EntityType string `param:"entityType" validate:"entityType"`
	EntityID   string `param:"entityId" validate:"uuid"`
}

func (p EntityParams) Bind() (types.EntityType, uuid.UUID) {
	id, _ := uuid.FromString(p.EntityID)
	return types.EntityType(p.EntityType), id
}

// DocumentRequest - значение редактора в виде HTML или Plate JSON. При наличии обоих используется HTML.
type DocumentRequest struct {
	HTML     *types.RedactorHTML `json:"html"`
	Document *edtypes.Document   `json:"document"`
}

func (req *DocumentRequest) Empty() bool {
	return req.HTML == nil && req.Document == nil
}

// Bind возвращает нормализованное значение для сохранения.
func (req *DocumentRequest) Bind() types.RedactorHTML {
	if req.HTML != nil {
		html := *req.HTML
		html.Normalize()
		return html
	}
	if req.Document != nil {
		return types.NewRedactorHTML(editor.Serialize(*req.Document))
	}
	return types.NewRedactorHTML("")
}

// CommandRequest - действие в сессии редактирования. Выделение, если передано, применяется до действия.
// Выполняется одно из: command, key, text, delete.
type CommandRequest struct {
	Selection *edtypes.Range `json:"selection"`
	Command   string         `json:"command" validate:"omitempty,editorCommand"`
	Key       string         `json:"key" validate:"omitempty,hotkey"`
	Text      *string        `json:"text" validate:"omitempty,max=10000"`
	Delete    bool           `json:"delete"`
	Rows      int            `json:"rows" validate:"omitempty,min=1,max=100"`
	Cols      int            `json:"cols" validate:"omitempty,min=1,max=50"`
}

type SelectRequest struct {
	Selection *edtypes.Range `json:"selection"`
}

// DescriptionResponse - сохраненное описание.
type DescriptionResponse struct {
	EntityType types.EntityType  `json:"entity_type"`
	EntityID   uuid.UUID         `json:"entity_id"`
	HTML       string            `json:"html"`
	Document   []plate.PlateNode `json:"document"`
	Text       string            `json:"text"`
	Version    int               `json:"version"`
	UpdatedAt  *time.Time        `json:"updated_at,omitempty"`
}

func NewDescriptionResponse(entityType types.EntityType, entityID uuid.UUID, d *dao.Description) DescriptionResponse {
	html := types.NewRedactorHTML("")
	res := DescriptionResponse{EntityType: entityType, EntityID: entityID}
	if d != nil {
		html = d.HTML
		res.Version = d.Version
		res.UpdatedAt = &d.UpdatedAt
	}
	doc := html.Document()
	res.HTML = html.Body
	res.Document = plate.ToValue(&doc)
	res.Text = html.StripTags()
	return res
}

// ConvertResponse - результат нормализации значения без сохранения.
type ConvertResponse struct {
	HTML     string            `json:"html"`
	Document []plate.PlateNode `json:"document"`
	Markdown string            `json:"markdown"`
	Text     string            `json:"text"`
}

// SessionResponse - состояние сессии редактирования.
type SessionResponse struct {
	ID         uuid.UUID         `json:"session_id"`
	EntityType types.EntityType  `json:"entity_type"`
	EntityID   uuid.UUID         `json:"entity_id"`
	HTML       string            `json:"html"`
	Document   []plate.PlateNode `json:"document"`
	Selection  *edtypes.Range    `json:"selection"`
	Marks      []string          `json:"active_marks"`
	BlockKind  string            `json:"block_kind,omitempty"`
	CanUndo    bool              `json:"can_undo"`
	CanRedo    bool              `json:"can_redo"`
	Changed    bool              `json:"changed"`
}

func NewSessionResponse(e *store.Entry, changed bool) SessionResponse {
	s := e.Session
	doc := s.Document()
	res := SessionResponse{
		ID:         e.ID,
		EntityType: types.EntityType(e.EntityType),
		EntityID:   e.EntityID,
		HTML:       s.HTML(),
		Document:   plate.ToValue(&doc),
		Selection:  s.Selection(),
		Marks:      []string{},
		CanUndo:    s.CanUndo(),
		CanRedo:    s.CanRedo(),
		Changed:    changed,
	}
	for _, m := range edtypes.AllMarks {
		if s.IsMarkActive(m) {
			res.Marks = append(res.Marks, m.String())
		}
	}
	if kind, ok := s.BlockKind(); ok {
		res.BlockKind = kind.String()
	}
	return res
}
