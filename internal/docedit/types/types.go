// Общие типы хранения описаний.
package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"slices"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	policy "github.com/aisa-it/aiplan/docedit/internal/docedit/redactor-policy"
)

// EntityType - тип записи-владельца описания.
type EntityType string

const (
	EntityIssue   EntityType = "issue"
	EntityProject EntityType = "project"
	EntityDoc     EntityType = "doc"
	EntitySprint  EntityType = "sprint"
)

var EntityTypes = []EntityType{EntityIssue, EntityProject, EntityDoc, EntitySprint}

func (t EntityType) Valid() bool {
	return slices.Contains(EntityTypes, t)
}

// RedactorHTML - HTML описания. При сохранении и при приеме из JSON значение очищается политикой редактора.
type RedactorHTML struct {
	Body             string
	stripped         string
	AlreadySanitized bool
}

// NewRedactorHTML возвращает значение в канонической форме: очищенное и пересериализованное редактором.
func NewRedactorHTML(body string) RedactorHTML {
	r := RedactorHTML{Body: body}
	r.Normalize()
	return r
}

func (r RedactorHTML) Value() (driver.Value, error) {
	if !r.AlreadySanitized {
		return policy.Sanitize(r.Body), nil
	}
	return r.Body, nil
}

func (r *RedactorHTML) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		r.Body = v
	case []byte:
		r.Body = string(v)
	case nil:
		r.Body = ""
	default:
		return errors.New("unsupported type")
	}
	r.stripped = ""
	// Из базы приходит уже очищенное значение
	r.AlreadySanitized = true
	return nil
}

// MarshalJSON пишет тело без экранирования HTML. json.Marshal и encoder с включенным SetEscapeHTML
// повторно экранируют результат (<p> становится \u003cp\u003e), неэкранированный вывод дает только
// json.Encoder с SetEscapeHTML(false).
func (r RedactorHTML) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(r.Body); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

func (r *RedactorHTML) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.Body); err != nil {
		return err
	}
	r.Body = policy.Sanitize(r.Body)
	r.stripped = ""
	r.AlreadySanitized = true
	return nil
}

// Normalize очищает значение и приводит его к сериализации редактора, так что повторное открытие в редакторе
// не меняет строку.
func (r *RedactorHTML) Normalize() {
	if !r.AlreadySanitized {
		r.Body = policy.Sanitize(r.Body)
		r.AlreadySanitized = true
	}
	r.Body = editor.Serialize(editor.Deserialize(r.Body))
	r.stripped = ""
}

// Document разбирает значение в документ редактора.
func (r RedactorHTML) Document() edtypes.Document {
	return editor.Deserialize(r.Body)
}

func (r *RedactorHTML) StripTags() string {
	if r.stripped == "" {
		r.stripped = policy.StripTags(r.Body)
	}
	return r.stripped
}

func (r RedactorHTML) String() string {
	return r.Body
}

func (RedactorHTML) GormDataType() string {
	return "text"
}
