package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
)

type roomRepo interface {
	Join(ctx context.Context, id uint64, first entity.Player, at time.Time) (entity.Player, error)
	Post(ctx context.Context, id uint64, player entity.Player, board string, at time.Time) error
	Fetch(ctx context.Context, id uint64, player entity.Player, at time.Time) (string, bool, error)
	Delete(ctx context.Context, id uint64) error
	DeleteExpired(ctx context.Context, before time.Time) ([]uint64, error)
}

type Option func(*RelayManager)

// WithCoin - replaces the coin flip choosing the colour of a room's first player.
func WithCoin(coin func() entity.Player) Option {
	return func(that *RelayManager) {
		that.coin = coin
	}
}

func WithClock(now func() time.Time) Option {
	return func(that *RelayManager) {
		that.now = now
	}
}

// RelayManager - pairs two players in a room and passes boards between them.
// It never inspects the boards it relays.
type RelayManager struct {
	logger *slog.Logger
	repo   roomRepo
	expire time.Duration

	coin func() entity.Player
	now  func() time.Time
}

func NewRelayManager(logger *slog.Logger, repo roomRepo, expire time.Duration, opts ...Option) *RelayManager {
	manager := &RelayManager{
		logger: logger.With("component", "relay"),
		repo:   repo,
		expire: expire,

		coin: func() entity.Player { return entity.Player(rand.N(2) == 1) },
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// Connect - seats the caller in room id. The first caller gets a random
// colour, the second the opposite one. A third gets apperror.ErrRoomFull.
func (that *RelayManager) Connect(ctx context.Context, id uint64) (entity.Player, error) {
	log := that.logger.With("method", "Connect", "room", id)

	player, err := that.repo.Join(ctx, id, that.coin(), that.now())
	if errors.Is(err, apperror.ErrRoomFull) {
		log.Info("room is full")
		return false, err
	}

	if err != nil {
		return false, fmt.Errorf("failed to join room: %w", err)
	}

	log.Info("player connected", "player", player.String())

	return player, nil
}

// Play - forwards board from player to the opponent's queue.
func (that *RelayManager) Play(ctx context.Context, id uint64, player entity.Player, board string) error {
	log := that.logger.With("method", "Play", "room", id)

	err := that.repo.Post(ctx, id, player.Opponent(), board, that.now())
	if errors.Is(err, apperror.ErrRoomNotFound) {
		log.Info("room not found")
		return err
	}

	if err != nil {
		return fmt.Errorf("failed to post board: %w", err)
	}

	log.Debug("board relayed", "to", player.Opponent().String())

	return nil
}

// Query - takes the oldest board waiting for player. An empty queue and a
// missing room both report no board.
func (that *RelayManager) Query(ctx context.Context, id uint64, player entity.Player) (string, bool, error) {
	board, ok, err := that.repo.Fetch(ctx, id, player, that.now())
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to fetch board: %w", err)
	}

	return board, ok, nil
}

// Disconnect - removes the room with any undelivered boards.
func (that *RelayManager) Disconnect(ctx context.Context, id uint64) error {
	if err := that.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	that.logger.Info("room closed", "method", "Disconnect", "room", id)

	return nil
}

// SweepExpired - removes rooms idle for longer than the expiry and returns how many went.
func (that *RelayManager) SweepExpired(ctx context.Context) (int, error) {
	ids, err := that.repo.DeleteExpired(ctx, that.now().Add(-that.expire))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired rooms: %w", err)
	}

	if len(ids) > 0 {
		that.logger.Info("expired rooms removed", "method", "SweepExpired", "count", len(ids))
	}

	return len(ids), nil
}
