package database

import (
	"errors"
	"strings"

	"socialschema/internal/models"
	"socialschema/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes for integrity violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// TranslateError maps a store error for table onto the models error taxonomy.
// Errors that already are AppErrors (e.g. from validation hooks) pass through.
func TranslateError(table string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == models.CodeConstraintViolation {
			observability.ConstraintViolations.WithLabelValues(table, string(appErr.Constraint)).Inc()
		}
		return appErr
	}

	kind, ok := constraintKind(err)
	if !ok {
		return models.NewInternalError(err)
	}
	observability.ConstraintViolations.WithLabelValues(table, string(kind)).Inc()

	var msg string
	switch kind {
	case models.ConstraintUnique:
		msg = table + ": duplicate value in unique column"
	case models.ConstraintForeignKey:
		msg = table + ": referenced row does not exist"
	default:
		msg = table + ": required column is missing"
	}
	return models.NewConstraintError(kind, msg, err)
}

func isConstraintError(err error) bool {
	_, ok := constraintKind(err)
	return ok
}

func constraintKind(err error) (models.ConstraintKind, bool) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ConstraintUnique, true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.ConstraintForeignKey, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.ConstraintUnique, true
		case pgForeignKeyViolation:
			return models.ConstraintForeignKey, true
		case pgNotNullViolation:
			return models.ConstraintRequired, true
		}
		return "", false
	}

	// SQLite reports constraint failures through the message text.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return models.ConstraintUnique, true
	case strings.Contains(msg, "foreign key constraint failed"), strings.Contains(msg, "violates foreign key"):
		return models.ConstraintForeignKey, true
	case strings.Contains(msg, "not null constraint failed"), strings.Contains(msg, "violates not-null"):
		return models.ConstraintRequired, true
	}
	return "", false
}
