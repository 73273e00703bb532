package auth

import (
	"context"
	"errors"
	"testing"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAuthProvider_BeginIsDeterministic(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	_, state, nonce, err := provider.Begin(ctx, ports.BeginInput{RedirectURL: "http://localhost/cb"})
	require.NoError(t, err)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	_, state, _, err = provider.Begin(ctx, ports.BeginInput{RedirectURL: "http://localhost/cb"})
	require.NoError(t, err)
	assert.Equal(t, "state-2", state)
}

func TestMockAuthProvider_ExchangeRefreshesExpiry(t *testing.T) {
	provider := NewMockAuthProvider()

	id, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, "admin@damedesign.pl", id.Email)
	assert.False(t, id.ExpiresAt.IsZero())
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", UserID: "u1", Role: domainauth.RoleAdmin}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	store.GetErr = errors.New("redis down")
	_, err = store.Get(ctx, "s1")
	require.EqualError(t, err, "redis down")
	store.GetErr = nil

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Zero(t, store.Len())
}

func TestStaticPasswordAuthenticator(t *testing.T) {
	a := &StaticPasswordAuthenticator{Email: "owner@damedesign.pl", Password: "sekret"}

	id, err := a.Authenticate(context.Background(), " Owner@DameDesign.pl ", "sekret")
	require.NoError(t, err)
	assert.Equal(t, "owner@damedesign.pl", id.Email)

	_, err = a.Authenticate(context.Background(), "owner@damedesign.pl", "wrong")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}
