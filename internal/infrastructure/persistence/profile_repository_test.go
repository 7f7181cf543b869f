package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/custreg/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProfileRepository(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	firstSeen := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Save and FindByName", func(t *testing.T) {
		p, err := customer.NewProfile("standard", "Standard tier")
		require.NoError(t, err)
		p.CreatedAt = firstSeen
		require.NoError(t, repos.profiles.Save(ctx, p))

		found, err := repos.profiles.FindByName(ctx, "standard")
		require.NoError(t, err)
		assert.Equal(t, "Standard tier", found.Description)
	})

	t.Run("Save with same name overwrites description and keeps creation time", func(t *testing.T) {
		p, err := customer.NewProfile("standard", "Overwritten")
		require.NoError(t, err)
		require.NoError(t, repos.profiles.Save(ctx, p))

		found, err := repos.profiles.FindByName(ctx, "standard")
		require.NoError(t, err)
		assert.Equal(t, "Overwritten", found.Description)
		assert.True(t, firstSeen.Equal(found.CreatedAt), "created_at = %v", found.CreatedAt)
	})

	t.Run("FindAll orders by name", func(t *testing.T) {
		p, err := customer.NewProfile("premium", "")
		require.NoError(t, err)
		require.NoError(t, repos.profiles.Save(ctx, p))

		all, err := repos.profiles.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "premium", all[0].Name)
		assert.Equal(t, "standard", all[1].Name)
	})

	t.Run("missing name returns ErrNotFound", func(t *testing.T) {
		_, err := repos.profiles.FindByName(ctx, "gold")
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repos.profiles.Delete(ctx, "premium"))
		assert.Equal(t, shared.ErrNotFound, repos.profiles.Delete(ctx, "premium"))
	})
}
