// Package authroles maps authenticated identities to application roles.
package authroles

import (
	"strings"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
)

// EmailAllowlist grants RoleAdmin to identities whose email is listed.
// With AllowAll set, every authenticated identity is an admin; password and mock
// modes use that because their identities already come from the admin_users table
// or local configuration.
type EmailAllowlist struct {
	Emails   []string
	AllowAll bool
}

func (m EmailAllowlist) Map(id domainauth.Identity) domainauth.Role {
	if id.UserID == "" {
		return domainauth.RoleGuest
	}
	if m.AllowAll {
		return domainauth.RoleAdmin
	}
	email := strings.TrimSpace(id.Email)
	for _, allowed := range m.Emails {
		if email != "" && strings.EqualFold(strings.TrimSpace(allowed), email) {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleGuest
}
