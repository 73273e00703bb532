package auth

import (
	"testing"
	"time"
)

func TestSession_IsGuest(t *testing.T) {
	s := Session{Role: RoleGuest}
	if !s.IsGuest() {
		t.Fatalf("expected guest")
	}
	if (Session{Role: RoleAdmin}).IsGuest() {
		t.Fatalf("did not expect guest")
	}
}

func TestSession_HasPrincipal(t *testing.T) {
	var nilSession *Session
	tests := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil", nilSession, false},
		{"admin", &Session{UserID: "u", Role: RoleAdmin}, true},
		{"admin without user", &Session{Role: RoleAdmin}, false},
		{"guest", &Session{UserID: "u", Role: RoleGuest}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.HasPrincipal(); got != tt.want {
				t.Fatalf("HasPrincipal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if (Session{}).Expired(now) {
		t.Fatalf("zero expiry never expires")
	}
	if !(Session{ExpiresAt: now}).Expired(now) {
		t.Fatalf("expiry is exclusive")
	}
	if (Session{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Fatalf("future expiry is live")
	}
}

func TestSession_DisplayName(t *testing.T) {
	if got := (Session{Name: "Damian", Email: "d@x.pl"}).DisplayName(); got != "Damian" {
		t.Fatalf("got %q", got)
	}
	if got := (Session{Email: "d@x.pl"}).DisplayName(); got != "d@x.pl" {
		t.Fatalf("got %q", got)
	}
}

func TestIdentity_SimpleFields(t *testing.T) {
	id := Identity{UserID: "u", Email: "e", ExpiresAt: time.Now().Add(time.Hour)}
	if id.UserID != "u" || id.Email != "e" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
