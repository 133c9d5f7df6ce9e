package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
	"github.com/rocketscienceinc/xiangqi-backend/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockRoomRepo struct {
	mock.Mock
}

func (that *mockRoomRepo) Join(ctx context.Context, id uint64, first entity.Player, at time.Time) (entity.Player, error) {
	args := that.Called(ctx, id, first, at)
	return args.Get(0).(entity.Player), args.Error(1)
}

func (that *mockRoomRepo) Post(ctx context.Context, id uint64, player entity.Player, board string, at time.Time) error {
	return that.Called(ctx, id, player, board, at).Error(0)
}

func (that *mockRoomRepo) Fetch(ctx context.Context, id uint64, player entity.Player, at time.Time) (string, bool, error) {
	args := that.Called(ctx, id, player, at)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (that *mockRoomRepo) Delete(ctx context.Context, id uint64) error {
	return that.Called(ctx, id).Error(0)
}

func (that *mockRoomRepo) DeleteExpired(ctx context.Context, before time.Time) ([]uint64, error) {
	args := that.Called(ctx, before)
	ids, _ := args.Get(0).([]uint64)
	return ids, args.Error(1)
}

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newManager(repo roomRepo, coin entity.Player) *RelayManager {
	return NewRelayManager(discardLogger(), repo, 20*time.Second,
		WithCoin(func() entity.Player { return coin }),
		WithClock(func() time.Time { return now }),
	)
}

func TestRelayManager_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("Passes the coin flip and clock to the repository", func(t *testing.T) {
		// Given: a repository that seats the caller as Black
		repo := &mockRoomRepo{}
		repo.On("Join", ctx, uint64(3), entity.PlayerBlack, now).Return(entity.PlayerBlack, nil).Once()
		manager := newManager(repo, entity.PlayerBlack)

		// When: connecting
		player, err := manager.Connect(ctx, 3)

		// Then: the seat is returned
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerBlack, player)
		repo.AssertExpectations(t)
	})

	t.Run("Full room is reported as is", func(t *testing.T) {
		repo := &mockRoomRepo{}
		repo.On("Join", ctx, uint64(3), mock.Anything, now).Return(entity.PlayerRed, apperror.ErrRoomFull).Once()
		manager := newManager(repo, entity.PlayerRed)

		_, err := manager.Connect(ctx, 3)

		require.ErrorIs(t, err, apperror.ErrRoomFull)
	})

	t.Run("Storage failure is wrapped", func(t *testing.T) {
		repo := &mockRoomRepo{}
		repo.On("Join", ctx, uint64(3), mock.Anything, now).Return(entity.PlayerRed, errRedisDown).Once()
		manager := newManager(repo, entity.PlayerRed)

		_, err := manager.Connect(ctx, 3)

		require.ErrorIs(t, err, errRedisDown)
		assert.NotErrorIs(t, err, apperror.ErrRoomFull)
	})
}

func TestRelayManager_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Board goes to the opponent", func(t *testing.T) {
		// Given: Red plays in room 8
		repo := &mockRoomRepo{}
		repo.On("Post", ctx, uint64(8), entity.PlayerBlack, "board", now).Return(nil).Once()
		manager := newManager(repo, entity.PlayerRed)

		// When: the board is relayed
		err := manager.Play(ctx, 8, entity.PlayerRed, "board")

		// Then: it is posted to Black's queue
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Missing room", func(t *testing.T) {
		repo := &mockRoomRepo{}
		repo.On("Post", ctx, uint64(8), entity.PlayerRed, "board", now).Return(apperror.ErrRoomNotFound).Once()
		manager := newManager(repo, entity.PlayerRed)

		err := manager.Play(ctx, 8, entity.PlayerBlack, "board")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestRelayManager_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing room reads as an empty queue", func(t *testing.T) {
		repo := &mockRoomRepo{}
		repo.On("Fetch", ctx, uint64(4), entity.PlayerRed, now).Return("", false, apperror.ErrRoomNotFound).Once()
		manager := newManager(repo, entity.PlayerRed)

		board, ok, err := manager.Query(ctx, 4, entity.PlayerRed)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, board)
	})

	t.Run("Storage failure", func(t *testing.T) {
		repo := &mockRoomRepo{}
		repo.On("Fetch", ctx, uint64(4), entity.PlayerRed, now).Return("", false, errRedisDown).Once()
		manager := newManager(repo, entity.PlayerRed)

		_, _, err := manager.Query(ctx, 4, entity.PlayerRed)

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestRelayManager_SweepExpired(t *testing.T) {
	ctx := context.Background()

	// Given: a repository holding two idle rooms
	repo := &mockRoomRepo{}
	repo.On("DeleteExpired", ctx, now.Add(-20*time.Second)).Return([]uint64{1, 2}, nil).Once()
	manager := newManager(repo, entity.PlayerRed)

	// When: sweeping
	count, err := manager.SweepExpired(ctx)

	// Then: the cutoff is one expiry before now
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	repo.AssertExpectations(t)
}

func TestRelayManager_Session(t *testing.T) {
	ctx := context.Background()
	manager := newManager(repository.NewMemoryRoomRepository(), entity.PlayerRed)

	// Given: two players connect to room 11
	red, err := manager.Connect(ctx, 11)
	require.NoError(t, err)
	black, err := manager.Connect(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, entity.PlayerRed, red)
	require.Equal(t, entity.PlayerBlack, black)

	_, err = manager.Connect(ctx, 11)
	require.ErrorIs(t, err, apperror.ErrRoomFull)

	// When: Red plays and both poll
	require.NoError(t, manager.Play(ctx, 11, red, "after-red"))

	_, ok, err := manager.Query(ctx, 11, red)
	require.NoError(t, err)
	assert.False(t, ok)

	board, ok, err := manager.Query(ctx, 11, black)
	require.NoError(t, err)

	// Then: only Black sees Red's board, exactly once
	require.True(t, ok)
	assert.Equal(t, "after-red", board)

	_, ok, err = manager.Query(ctx, 11, black)
	require.NoError(t, err)
	assert.False(t, ok)

	// When: the room is closed
	require.NoError(t, manager.Disconnect(ctx, 11))

	// Then: further plays fail and a new connect starts over
	require.ErrorIs(t, manager.Play(ctx, 11, black, "late"), apperror.ErrRoomNotFound)

	player, err := manager.Connect(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, entity.PlayerRed, player)
}

func TestRelayManager_Expiry(t *testing.T) {
	ctx := context.Background()

	clock := now
	manager := NewRelayManager(discardLogger(), repository.NewMemoryRoomRepository(), 20*time.Second,
		WithCoin(func() entity.Player { return entity.PlayerRed }),
		WithClock(func() time.Time { return clock }),
	)

	// Given: two rooms opened at the same time
	_, err := manager.Connect(ctx, 1)
	require.NoError(t, err)
	_, err = manager.Connect(ctx, 2)
	require.NoError(t, err)

	// Given: only room 1 is queried within the window
	clock = now.Add(15 * time.Second)
	_, _, err = manager.Query(ctx, 1, entity.PlayerRed)
	require.NoError(t, err)

	// When: the sweep runs past the timeout of room 2
	clock = now.Add(25 * time.Second)
	count, err := manager.SweepExpired(ctx)

	// Then: room 2 is gone and room 1 still accepts plays
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.ErrorIs(t, manager.Play(ctx, 2, entity.PlayerRed, "b"), apperror.ErrRoomNotFound)
	require.NoError(t, manager.Play(ctx, 1, entity.PlayerRed, "b"))
}
