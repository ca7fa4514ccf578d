// internal/adapters/db/errors.go
package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapError translates driver errors into domain errors. notFound is the
// message used when the query matched no row. Other errors pass through.
func mapError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(notFound)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return domain.Conflict(uniqueMessage(pgErr.ConstraintName))
	case pgForeignKeyViolation:
		return domain.Invalid(foreignKeyMessage(pgErr.ConstraintName))
	case pgCheckViolation:
		if strings.Contains(pgErr.ConstraintName, "stock") {
			return domain.InsufficientStock()
		}
		return domain.Invalid("value violates " + pgErr.ConstraintName)
	}

	return err
}

func uniqueMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "Email already exists"
	case strings.Contains(constraint, "pharmacy_categories"):
		return "Category already linked to pharmacy"
	case strings.Contains(constraint, "medicines_name"):
		return "Medicine already exists"
	default:
		return "Record already exists"
	}
}

func foreignKeyMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "category"):
		return "Category does not exist"
	case strings.Contains(constraint, "user"):
		return "User does not exist"
	case strings.Contains(constraint, "pharmacy"):
		return "Pharmacy does not exist"
	case strings.Contains(constraint, "medicine"):
		return "Medicine not found"
	default:
		return "Referenced record does not exist"
	}
}
