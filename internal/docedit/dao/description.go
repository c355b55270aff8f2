// DAO описаний. HTML строка - единственное хранимое представление описания, документ редактора из нее
// восстанавливается при каждом открытии.
package dao

import (
	"errors"
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDescriptionNotFound = errors.New("description not found")

// GenUUID генерирует идентификатор записи.
func GenUUID() uuid.UUID {
	u, _ := uuid.NewV4()
	return u
}

// Description - описание задачи, проекта, документа или спринта.
type Description struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EntityType types.EntityType `json:"entity_type" gorm:"uniqueIndex:descriptions_entity_idx;not null"`
	EntityID   uuid.UUID        `json:"entity_id" gorm:"type:uuid;uniqueIndex:descriptions_entity_idx;not null"`

	HTML types.RedactorHTML `json:"html"`
	// Счетчик сохранений, растет при каждом изменении
	Version int `json:"version" gorm:"not null;default:1"`
}

func (Description) TableName() string { return "descriptions" }

func (d *Description) BeforeCreate(tx *gorm.DB) error {
	if d.ID.IsNil() {
		d.ID = GenUUID()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	return nil
}

// Migrate создает или обновляет таблицы сервиса.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Description{})
}

// GetDescription возвращает описание сущности или ErrDescriptionNotFound.
func GetDescription(db *gorm.DB, entityType types.EntityType, entityID uuid.UUID) (*Description, error) {
	var d Description
	if err := db.
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDescriptionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// SaveDescription создает или заменяет описание. Значение должно быть уже нормализовано вызывающим.
// Если содержимое не изменилось, запись не трогается.
func SaveDescription(db *gorm.DB, entityType types.EntityType, entityID uuid.UUID, html types.RedactorHTML) (*Description, error) {
	var res *Description
	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := GetDescription(tx, entityType, entityID)
		if err != nil && !errors.Is(err, ErrDescriptionNotFound) {
			return err
		}
		if current != nil && current.HTML.Body == html.Body {
			res = current
			return nil
		}

		now := time.Now()
		d := Description{
			ID:         GenUUID(),
			CreatedAt:  now,
			UpdatedAt:  now,
			EntityType: entityType,
			EntityID:   entityID,
			HTML:       html,
			Version:    1,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"html":       html,
				"updated_at": now,
				"version":    gorm.Expr("descriptions.version + 1"),
			}),
		}).Create(&d).Error; err != nil {
			return err
		}

		res, err = GetDescription(tx, entityType, entityID)
		return err
	})
	return res, err
}

// DeleteDescription удаляет описание. Отсутствие записи не является ошибкой.
func DeleteDescription(db *gorm.DB, entityType types.EntityType, entityID uuid.UUID) error {
	return db.
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Delete(&Description{}).Error
}

// CountDescriptions возвращает число описаний по типам сущностей.
func CountDescriptions(db *gorm.DB) (map[types.EntityType]int64, error) {
	var rows []struct {
		EntityType types.EntityType
		Count      int64
	}
	if err := db.Model(&Description{}).
		Select("entity_type, count(*) as count").
		Group("entity_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	res := make(map[types.EntityType]int64, len(rows))
	for _, r := range rows {
		res[r.EntityType] = r.Count
	}
	return res, nil
}
