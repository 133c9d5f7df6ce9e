package repository

import (
	"context"
	"time"

	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
)

// RoomRepository - storage of relay rooms. Every operation that finds the room
// refreshes its activity time with at.
type RoomRepository interface {
	// Join - creates the room with the caller playing first, or seats the caller
	// in the reserved colour. Returns apperror.ErrRoomFull for a full room.
	Join(ctx context.Context, id uint64, first entity.Player, at time.Time) (entity.Player, error)

	// Post - queues board for player. Returns apperror.ErrRoomNotFound when the room is missing.
	Post(ctx context.Context, id uint64, player entity.Player, board string, at time.Time) error

	// Fetch - dequeues the oldest board waiting for player. Returns
	// apperror.ErrRoomNotFound when the room is missing.
	Fetch(ctx context.Context, id uint64, player entity.Player, at time.Time) (string, bool, error)

	Delete(ctx context.Context, id uint64) error

	// DeleteExpired - removes every room with no activity since before and
	// returns their ids. The check and the removal happen atomically.
	DeleteExpired(ctx context.Context, before time.Time) ([]uint64, error)
}
