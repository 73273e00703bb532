package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/google/uuid"
)

const adminUserColumns = `id::text AS id, email, name, password_hash, created_at, last_login_at`

// AdminUserRepo provides database operations for password-auth administrators.
type AdminUserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAdminUserRepo creates a new AdminUserRepo.
func NewAdminUserRepo(db *sql.DB) *AdminUserRepo {
	return &AdminUserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// GetByEmail looks an administrator up by email, case-insensitively.
func (r *AdminUserRepo) GetByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	u, err := queryOne[model.AdminUser](ctx, r.DB, ErrAdminUserNotFound,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE email = $1`, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrAdminUserNotFound) {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return u, err
}

// Create inserts an administrator with an already hashed password.
func (r *AdminUserRepo) Create(ctx context.Context, email, name, passwordHash string) (*model.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.ValidationField("email", "Email jest wymagany.")
	}
	u, err := queryOne[model.AdminUser](ctx, r.DB, ErrAdminUserNotFound, `
		INSERT INTO admin_users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+adminUserColumns,
		uuid.NewString(), email, strings.TrimSpace(name), passwordHash, r.timeProvider.Now().UTC())
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return u, nil
}

// UpdatePassword replaces the stored hash for email.
func (r *AdminUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return execAffecting(ctx, r.DB, ErrAdminUserNotFound,
		`UPDATE admin_users SET password_hash = $2 WHERE email = $1`, normalizeEmail(email), passwordHash)
}

// TouchLogin records a successful sign-in.
func (r *AdminUserRepo) TouchLogin(ctx context.Context, id string) error {
	return execAffecting(ctx, r.DB, ErrAdminUserNotFound,
		`UPDATE admin_users SET last_login_at = $2 WHERE id = $1::uuid`, id, r.timeProvider.Now().UTC())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
