package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
	"github.com/rocketscienceinc/xiangqi-backend/testing/suite"
)

var epoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestMemoryRoomRepository(t *testing.T) {
	runRoomRepositoryTests(t, func(t *testing.T) (context.Context, RoomRepository) {
		return context.Background(), NewMemoryRoomRepository()
	})
}

func TestRedisRoomRepository(t *testing.T) {
	runRoomRepositoryTests(t, func(t *testing.T) (context.Context, RoomRepository) {
		ctx, st := suite.New(t)
		return ctx, NewRoomRepository(st.Storage)
	})
}

func runRoomRepositoryTests(t *testing.T, setup func(t *testing.T) (context.Context, RoomRepository)) {
	t.Helper()

	t.Run("Join_CreatesThenFills", func(t *testing.T) {
		ctx, repo := setup(t)

		// Given: nobody in room 42
		// When: two players join and a third tries
		first, err := repo.Join(ctx, 42, entity.PlayerBlack, epoch)
		require.NoError(t, err)

		second, err := repo.Join(ctx, 42, entity.PlayerBlack, epoch)
		require.NoError(t, err)

		_, err = repo.Join(ctx, 42, entity.PlayerRed, epoch)

		// Then: the first keeps its coin flip, the second gets the other colour, the third is refused
		assert.Equal(t, entity.PlayerBlack, first)
		assert.Equal(t, entity.PlayerRed, second)
		require.ErrorIs(t, err, apperror.ErrRoomFull)
	})

	t.Run("PostFetch_Order", func(t *testing.T) {
		ctx, repo := setup(t)

		_, err := repo.Join(ctx, 1, entity.PlayerRed, epoch)
		require.NoError(t, err)

		// Given: two boards posted to Black
		require.NoError(t, repo.Post(ctx, 1, entity.PlayerBlack, "b1", epoch))
		require.NoError(t, repo.Post(ctx, 1, entity.PlayerBlack, "b2", epoch))

		// When: Red fetches
		_, ok, err := repo.Fetch(ctx, 1, entity.PlayerRed, epoch)

		// Then: Red's mailbox is empty
		require.NoError(t, err)
		assert.False(t, ok)

		// Then: Black receives boards in order
		board, ok, err := repo.Fetch(ctx, 1, entity.PlayerBlack, epoch)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "b1", board)

		board, ok, err = repo.Fetch(ctx, 1, entity.PlayerBlack, epoch)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "b2", board)

		_, ok, err = repo.Fetch(ctx, 1, entity.PlayerBlack, epoch)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("MissingRoom", func(t *testing.T) {
		ctx, repo := setup(t)

		// When: operating on a room that was never created
		errPost := repo.Post(ctx, 5, entity.PlayerRed, "x", epoch)
		_, _, errFetch := repo.Fetch(ctx, 5, entity.PlayerRed, epoch)

		// Then: both report the room as missing and deletion is a no-op
		require.ErrorIs(t, errPost, apperror.ErrRoomNotFound)
		require.ErrorIs(t, errFetch, apperror.ErrRoomNotFound)
		require.NoError(t, repo.Delete(ctx, 5))
	})

	t.Run("Delete_DropsMail", func(t *testing.T) {
		ctx, repo := setup(t)

		_, err := repo.Join(ctx, 9, entity.PlayerRed, epoch)
		require.NoError(t, err)
		require.NoError(t, repo.Post(ctx, 9, entity.PlayerBlack, "pending", epoch))

		// When: the room is deleted and created again
		require.NoError(t, repo.Delete(ctx, 9))
		player, err := repo.Join(ctx, 9, entity.PlayerBlack, epoch)
		require.NoError(t, err)

		// Then: it is a fresh room without the old mail
		assert.Equal(t, entity.PlayerBlack, player)
		_, ok, err := repo.Fetch(ctx, 9, entity.PlayerBlack, epoch)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		ctx, repo := setup(t)

		// Given: rooms last active at different times
		_, err := repo.Join(ctx, 1, entity.PlayerRed, epoch)
		require.NoError(t, err)
		_, err = repo.Join(ctx, 2, entity.PlayerRed, epoch.Add(10*time.Second))
		require.NoError(t, err)
		_, err = repo.Join(ctx, 3, entity.PlayerRed, epoch.Add(30*time.Second))
		require.NoError(t, err)

		// Given: room 1 is refreshed by a fetch
		_, _, err = repo.Fetch(ctx, 1, entity.PlayerRed, epoch.Add(25*time.Second))
		require.NoError(t, err)

		// When: sweeping everything idle before epoch+20s
		ids, err := repo.DeleteExpired(ctx, epoch.Add(20*time.Second))

		// Then: only room 2 goes away
		require.NoError(t, err)
		assert.Equal(t, []uint64{2}, ids)

		_, _, err = repo.Fetch(ctx, 2, entity.PlayerRed, epoch.Add(30*time.Second))
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)

		// When: sweeping with a cutoff equal to a room's activity time
		ids, err = repo.DeleteExpired(ctx, epoch.Add(30*time.Second))
		require.NoError(t, err)

		// Then: room 1 goes, room 3 at the boundary survives
		assert.Equal(t, []uint64{1}, ids)

		_, _, err = repo.Fetch(ctx, 3, entity.PlayerRed, epoch.Add(30*time.Second))
		require.NoError(t, err)
	})
}
