package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict (with Field when it can be recovered)
//   - check / NOT NULL violations → Validation
//   - context deadline / cancel → Timeout / Canceled
//
// Errors that are not recognised are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "Przekroczono czas oczekiwania. Spróbuj ponownie.")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "Operacja została przerwana.")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(err, ErrCodeNotFound, "Nie znaleziono zasobu.")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := uniqueViolationField(pgErr)
		return &AppError{
			Code:    ErrCodeConflict,
			Message: conflictMessage(pgErr.TableName, field),
			Field:   field,
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Nieprawidłowe dane. Sprawdź formularz.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.StringDataRightTruncationDataException:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Wartość jest zbyt długa.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return Wrap(pgErr, ErrCodeInternal, "Błąd bazy danych: "+pgErr.Message)
	}
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func uniqueViolationField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return fieldFromConstraint(pgErr.TableName, pgErr.ConstraintName)
}

// fieldFromConstraint reads Postgres' default "<table>_<column>_key" name:
// "admin_users_email_key" on admin_users is "email".
func fieldFromConstraint(table, constraint string) string {
	name, ok := strings.CutSuffix(constraint, "_key")
	if !ok {
		return ""
	}
	if table != "" {
		if rest, found := strings.CutPrefix(name, table+"_"); found {
			return rest
		}
		return ""
	}
	// Without the table only a single-word table name is unambiguous.
	if _, col, found := strings.Cut(name, "_"); found && !strings.Contains(col, "_") {
		return col
	}
	return ""
}

func conflictMessage(table, field string) string {
	switch {
	case table == "projects" && field == "slug":
		return "Projekt o takim tytule już istnieje."
	case table == "admin_users" && field == "email":
		return "Administrator o takim adresie email już istnieje."
	default:
		return "Taka wartość już istnieje."
	}
}
