package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
)

type memoryRooms struct {
	mu    sync.RWMutex
	rooms map[uint64]*entity.Room
}

// NewMemoryRoomRepository - process-local room table guarded by a single lock.
func NewMemoryRoomRepository() RoomRepository {
	return &memoryRooms{
		rooms: make(map[uint64]*entity.Room),
	}
}

func (that *memoryRooms) Join(_ context.Context, id uint64, first entity.Player, at time.Time) (entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		that.rooms[id] = entity.NewRoom(id, first, at)
		return first, nil
	}

	return room.Join(at)
}

func (that *memoryRooms) Post(_ context.Context, id uint64, player entity.Player, board string, at time.Time) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return apperror.ErrRoomNotFound
	}

	room.Push(player, board, at)

	return nil
}

func (that *memoryRooms) Fetch(_ context.Context, id uint64, player entity.Player, at time.Time) (string, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return "", false, apperror.ErrRoomNotFound
	}

	board, ok := room.Pop(player, at)

	return board, ok, nil
}

func (that *memoryRooms) Delete(_ context.Context, id uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)

	return nil
}

func (that *memoryRooms) DeleteExpired(_ context.Context, before time.Time) ([]uint64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var ids []uint64
	for id, room := range that.rooms {
		if room.IsExpired(before) {
			ids = append(ids, id)
			delete(that.rooms, id)
		}
	}

	return ids, nil
}
