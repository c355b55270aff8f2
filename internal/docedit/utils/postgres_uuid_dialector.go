// Диалектор PostgreSQL для GORM, который хранит uuid.UUID в нативном типе uuid и не пересоздает такие колонки
// при повторной миграции.
package utils

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/gofrs/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/migrator"
	"gorm.io/gorm/schema"
)

var (
	uuidType     = reflect.TypeOf(uuid.UUID{})
	nullUUIDType = reflect.TypeOf(uuid.NullUUID{})
)

type PostgresUUIDDialector struct {
	*postgres.Dialector
}

func NewPostgresUUIDDialector(config postgres.Config) gorm.Dialector {
	return &PostgresUUIDDialector{
		Dialector: postgres.New(config).(*postgres.Dialector),
	}
}

func (d *PostgresUUIDDialector) Migrator(db *gorm.DB) gorm.Migrator {
	return &PostgresUUIDMigrator{
		Migrator: postgres.Migrator{
			Migrator: migrator.Migrator{
				Config: migrator.Config{
					DB:                          db,
					Dialector:                   d,
					CreateIndexAfterCreateTable: true,
				},
			},
		},
	}
}

type PostgresUUIDMigrator struct {
	postgres.Migrator
}

// IsUUIDField - true для полей uuid.UUID и uuid.NullUUID, в том числе по указателю.
func IsUUIDField(field *schema.Field) bool {
	t := field.FieldType
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t == uuidType || t == nullUUIDType
}

func (m *PostgresUUIDMigrator) DataTypeOf(field *schema.Field) string {
	if IsUUIDField(field) {
		return "uuid"
	}
	return m.Migrator.DataTypeOf(field)
}

// AlterColumn пропускает колонки, которые уже имеют тип uuid.
func (m *PostgresUUIDMigrator) AlterColumn(value interface{}, field string) error {
	stmt := &gorm.Statement{DB: m.DB}
	if err := stmt.Parse(value); err != nil {
		return err
	}

	f := stmt.Schema.LookUpField(field)
	if f == nil {
		return fmt.Errorf("failed to look up field with name: %s", field)
	}

	if IsUUIDField(f) {
		columnTypes, err := m.DB.Migrator().ColumnTypes(value)
		if err != nil {
			return err
		}
		for _, ct := range columnTypes {
			if ct.Name() == f.DBName && strings.EqualFold(ct.DatabaseTypeName(), "uuid") {
				slog.Debug("Skip AlterColumn, already uuid", "table", stmt.Table, "column", f.DBName)
				return nil
			}
		}
	}

	return m.DB.Exec(
		"ALTER TABLE ? ALTER COLUMN ? TYPE ?",
		clause.Table{Name: stmt.Table}, clause.Column{Name: f.DBName},
		clause.Expr{SQL: m.DataTypeOf(f)},
	).Error
}
