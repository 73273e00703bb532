package redis

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "admin-1",
		Name:      "Owner",
		Email:     "owner@damedesign.pl",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()
	sess := adminSession("sess-1", 30*time.Minute)

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.Email, got.Email)
	assert.True(t, got.HasPrincipal())
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	ttl := client.TTL(ctx, "damedesign:session:sess-1").Val()
	assert.True(t, ttl > 29*time.Minute && ttl <= 30*time.Minute)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_RejectsExpiredAndEmpty(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, adminSession("", time.Hour)))
	assert.Error(t, store.Save(ctx, adminSession("old", -time.Minute)))

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_GetDropsSessionsPastExpiry(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewSessionStoreWithPrefix(client, "test:session:")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, adminSession("soon", time.Hour)))

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err := store.Get(ctx, "soon")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, client.Exists(ctx, "test:session:soon").Val())
}
