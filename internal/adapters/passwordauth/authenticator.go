// Package passwordauth authenticates administrators against bcrypt hashes in admin_users.
package passwordauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/damedesign/portfolio/internal/data"
	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password Hash accepts.
const MinPasswordLength = 8

// dummyHash is compared against when the email is unknown so both paths cost one bcrypt run.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOa5fJ0G1p7Gf2WQ0u2l7m3b5mJQW3F0a")

// Authenticator implements ports.PasswordAuthenticator.
type Authenticator struct {
	users  ports.AdminUserRepository
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator backed by users.
func NewAuthenticator(users ports.AdminUserRepository, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{users: users, logger: logger.With("component", "password_auth")}
}

// Authenticate returns the identity for a matching email/password pair.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (domainauth.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, data.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("lookup admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domainauth.Identity{}, ports.ErrInvalidCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("verify password: %w", err)
	}

	if err := a.users.TouchLogin(ctx, user.ID); err != nil {
		a.logger.WarnContext(ctx, "failed to record login time", "user_id", user.ID, "error", err)
	}
	return domainauth.Identity{UserID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// Hash returns the bcrypt hash of password.
func Hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", apperrors.ValidationField("password",
			fmt.Sprintf("Hasło musi mieć co najmniej %d znaków.", MinPasswordLength))
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.ValidationField("password", "Hasło jest zbyt długie.")
		}
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "could not hash password")
	}
	return string(hashed), nil
}
