package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func TestSessionRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByID_Success", func(t *testing.T) {
		repo := NewSessionRepository()

		// Given: a stored session
		session := entity.NewSession("123", entity.ModeHumanVsAutomated, entity.MarkO)
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with its ID
		stored, err := repo.GetByID(ctx, "123")

		// Then: the stored session matches
		require.NoError(t, err)
		assert.Equal(t, session, stored)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		repo := NewSessionRepository()

		// When: GetByID is called with an unknown ID
		stored, err := repo.GetByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, stored)
	})

	t.Run("Returned sessions are copies", func(t *testing.T) {
		repo := NewSessionRepository()

		// Given: a stored session
		session := entity.NewSession("123", entity.ModeHumanVsHuman, entity.MarkO)
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: the caller mutates both its own and a fetched copy
		session.Board[0] = entity.CellX
		fetched, err := repo.GetByID(ctx, "123")
		require.NoError(t, err)
		fetched.Score.X = 5

		// Then: the stored session is untouched
		stored, err := repo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.True(t, stored.Board.IsEmpty())
		assert.Zero(t, stored.Score.X)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx := context.Background()

	t.Run("DeleteByID_Success", func(t *testing.T) {
		repo := NewSessionRepository()

		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("123", entity.ModeHumanVsHuman, entity.MarkO)))

		// When: DeleteByID is called with an existing ID
		err := repo.DeleteByID(ctx, "123")

		// Then: it is gone
		require.NoError(t, err)
		_, err = repo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		repo := NewSessionRepository()

		err := repo.DeleteByID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
