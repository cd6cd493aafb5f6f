// Package repository implements the data access layer for the social schema.
package repository

import (
	"context"
	"errors"
	"fmt"

	"socialschema/internal/database"
	"socialschema/internal/models"
	"socialschema/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column names shared by several tables.
const (
	colUserID    = "userID"
	colPostID    = "postID"
	colCreatedAt = "createdAt"
)

var metrics = observability.NewDatabaseMetrics()

// eq builds a condition on a single quoted column. Column names are camelCase,
// so raw "userID = ?" strings would be folded to lower case by PostgreSQL.
func eq(column string, value interface{}) map[string]interface{} {
	return map[string]interface{}{column: value}
}

func newestFirst() clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: colCreatedAt}, Desc: true}
}

func oldestFirst() clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: colCreatedAt}}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// lookupError turns a failed single-row read into NOT_FOUND or INTERNAL_ERROR.
func lookupError(resource string, id interface{}, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// deleteByID removes one row by primary key, reporting NOT_FOUND when nothing matched.
func deleteByID(ctx context.Context, db *gorm.DB, resource, table string, model interface{}, id uint) error {
	defer metrics.TrackQuery("delete", table)()

	result := db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return database.TranslateError(table, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}

// updateColumns validates model and writes every column except the key and
// the creation time. id is the model's primary key value.
func updateColumns(ctx context.Context, db *gorm.DB, resource, table, pk string, id uint, model interface{}) error {
	if id == 0 {
		return models.NewValidationError(fmt.Sprintf("%s.%s is required for update", resource, pk))
	}
	if err := models.Validate(resource, model); err != nil {
		return database.TranslateError(table, err)
	}

	defer metrics.TrackQuery("update", table)()

	result := db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit(pk, colCreatedAt, clause.Associations).
		Updates(model)
	if result.Error != nil {
		return database.TranslateError(table, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}
