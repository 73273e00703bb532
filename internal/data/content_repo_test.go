package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFAQRepo_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewFAQRepo(db)

		a, err := repo.Create(ctx, &model.FAQRequest{Question: "Ile trwa projekt?", Answer: "Zwykle 2 tygodnie."})
		require.NoError(t, err)
		b, err := repo.Create(ctx, &model.FAQRequest{Question: "Czy robisz logo?", Answer: "Tak."})
		require.NoError(t, err)

		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, a.ID, items[0].ID, "oldest first")

		updated, err := repo.Update(ctx, b.ID, &model.FAQRequest{Question: "Czy projektujesz logo?", Answer: "Tak!"})
		require.NoError(t, err)
		assert.Equal(t, "Czy projektujesz logo?", updated.Question)

		require.NoError(t, repo.Delete(ctx, a.ID))
		require.ErrorIs(t, repo.Delete(ctx, a.ID), ErrFAQNotFound)

		_, err = repo.GetByID(ctx, a.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTestimonialRepo_ListNewestFirst(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewTestimonialRepo(db)

		_, err := repo.Create(ctx, &model.TestimonialRequest{Name: "Anna", Text: "Świetna współpraca"})
		require.NoError(t, err)
		second, err := repo.Create(ctx, &model.TestimonialRequest{Name: "Piotr", Text: "Polecam"})
		require.NoError(t, err)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)

		require.NoError(t, repo.Delete(ctx, second.ID))
		list, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestLogoRepo_CreateFromUpload(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLogoRepo(db)

		req := model.NewLogoRequest("kawiarnia.svg", "/uploads/logos/kawiarnia.svg")
		logo, err := repo.Create(ctx, &req)
		require.NoError(t, err)
		assert.Equal(t, "kawiarnia", logo.Name)
		assert.Equal(t, "Logo klienta: kawiarnia", logo.AltText)

		require.NoError(t, repo.Delete(ctx, logo.ID))
		require.ErrorIs(t, repo.Delete(ctx, logo.ID), ErrLogoNotFound)
	})
}

func TestAboutRepo_Upsert(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAboutRepo(db)

		_, err := repo.Get(ctx)
		require.ErrorIs(t, err, ErrAboutNotFound)

		_, err = repo.Upsert(ctx, &model.AboutRequest{Heading: "Cześć!", Description: "Jestem projektantką."})
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, &model.AboutRequest{Heading: "Hej!", Description: "Projektuję marki."})
		require.NoError(t, err)

		got, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Hej!", got.Heading)
	})
}

func TestSiteSettingsRepo_SetMaintenance(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewSiteSettingsRepo(db)

		on, err := repo.IsMaintenanceMode(ctx)
		require.NoError(t, err)
		assert.False(t, on)

		s, err := repo.SetMaintenance(ctx, true, "owner@damedesign.pl")
		require.NoError(t, err)
		assert.True(t, s.IsMaintenanceMode)
		require.NotNil(t, s.UpdatedBy)
		assert.Equal(t, "owner@damedesign.pl", *s.UpdatedBy)

		on, err = repo.IsMaintenanceMode(ctx)
		require.NoError(t, err)
		assert.True(t, on)
	})
}

func TestAdminUserRepo_CreateAndLookup(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAdminUserRepo(db)

		u, err := repo.Create(ctx, " Owner@DameDesign.pl ", "Owner", "hash-1")
		require.NoError(t, err)
		assert.Equal(t, "owner@damedesign.pl", u.Email)
		assert.NotEmpty(t, u.ID)

		got, err := repo.GetByEmail(ctx, "OWNER@damedesign.pl")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Nil(t, got.LastLoginAt)

		require.NoError(t, repo.UpdatePassword(ctx, u.Email, "hash-2"))
		require.NoError(t, repo.TouchLogin(ctx, u.ID))

		got, err = repo.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, "hash-2", got.PasswordHash)
		assert.NotNil(t, got.LastLoginAt)

		_, err = repo.GetByEmail(ctx, "nobody@damedesign.pl")
		require.ErrorIs(t, err, ErrAdminUserNotFound)
	})
}
