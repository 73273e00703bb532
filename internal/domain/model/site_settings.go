//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// SiteSettings is the singleton row identified by singleton_check = true.
type SiteSettings struct {
	IsMaintenanceMode bool      `json:"is_maintenance_mode" db:"is_maintenance_mode"`
	UpdatedAt         time.Time `json:"updated_at"          db:"updated_at"`
	UpdatedBy         *string   `json:"updated_by,omitempty" db:"updated_by"`
}

// AdminUser is an account allowed to sign in with a password.
type AdminUser struct {
	ID           string     `json:"id"                      db:"id"`
	Email        string     `json:"email"                   db:"email"`
	Name         string     `json:"name"                    db:"name"`
	PasswordHash string     `json:"-"                       db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at"              db:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}
