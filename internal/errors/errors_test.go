package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAppError_WrapAndClassify(t *testing.T) {
	cause := errors.New("smtp: 535 auth failed")
	err := Wrap(cause, ErrCodeUnavailable, "Nie udało się wysłać wiadomości.")

	assert.True(t, IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Nie udało się wysłać wiadomości.", UserMessage(err))
	assert.Equal(t, ErrCodeUnavailable, GetCode(fmt.Errorf("outer: %w", err)))
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
}

func TestUserMessage_RawErrorText(t *testing.T) {
	assert.Equal(t, "connection refused", UserMessage(errors.New("connection refused")))
	assert.Empty(t, UserMessage(nil))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("title", "Tytuł jest wymagany.")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "title", GetField(err))
}

func TestMapDBError(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		assert.True(t, IsNotFound(MapDBError(fmt.Errorf("get: %w", pgx.ErrNoRows))))
	})

	t.Run("deadline", func(t *testing.T) {
		assert.Equal(t, ErrCodeTimeout, GetCode(MapDBError(context.DeadlineExceeded)))
	})

	t.Run("duplicate slug", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			TableName:      "projects",
			ConstraintName: "projects_slug_key",
			Detail:         "Key (slug)=(logo) already exists.",
		}
		err := MapDBError(pgErr)
		assert.True(t, IsConflict(err))
		assert.Equal(t, "slug", GetField(err))
		assert.Equal(t, "Projekt o takim tytule już istnieje.", UserMessage(err))
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("field from constraint name", func(t *testing.T) {
		err := MapDBError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "admin_users_email_key", TableName: "admin_users"})
		assert.Equal(t, "email", GetField(err))
		assert.Equal(t, "Administrator o takim adresie email już istnieje.", UserMessage(err))
	})

	t.Run("constraint names", func(t *testing.T) {
		tests := []struct {
			table, constraint, want string
		}{
			{"admin_users", "admin_users_email_key", "email"},
			{"projects", "projects_slug_key", "slug"},
			{"contact_submissions", "contact_submissions_external_id_key", "external_id"},
			{"", "projects_slug_key", "slug"},
			{"", "admin_users_email_key", ""},
			{"projects", "projects_pkey", ""},
			{"projects", "faq_items_question_key", ""},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, fieldFromConstraint(tt.table, tt.constraint), tt.constraint)
		}
	})

	t.Run("not null", func(t *testing.T) {
		err := MapDBError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "question"})
		assert.True(t, IsValidation(err))
		assert.Equal(t, "question", GetField(err))
	})

	t.Run("other pg error is internal", func(t *testing.T) {
		err := MapDBError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected, Message: "deadlock detected"})
		assert.Equal(t, ErrCodeInternal, GetCode(err))
		assert.Contains(t, UserMessage(err), "deadlock detected")
	})

	t.Run("unknown error passes through", func(t *testing.T) {
		plain := errors.New("boom")
		assert.Same(t, plain, MapDBError(plain))
	})
}
