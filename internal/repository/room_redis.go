package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
)

const (
	activityKey = "rooms:activity"

	fieldStatus   = "status"
	fieldReserved = "reserved"

	maxTxRetries = 8
)

var ErrTooManyRetries = errors.New("transaction retries exhausted")

// sweepScript - removes rooms whose activity score is strictly below ARGV[1].
var sweepScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1])
for _, id in ipairs(ids) do
	redis.call('DEL', 'room:' .. id, 'room:' .. id .. ':mail:red', 'room:' .. id .. ':mail:black')
	redis.call('ZREM', KEYS[1], id)
end
return ids
`)

type redisRooms struct {
	client *redis.Client
}

// NewRoomRepository - rooms kept in Redis. A room is a hash at room:{id}, each
// player's queue is a list at room:{id}:mail:{colour} and activity times live
// in the rooms:activity sorted set.
func NewRoomRepository(client *redis.Client) RoomRepository {
	return &redisRooms{
		client: client,
	}
}

func (that *redisRooms) Join(ctx context.Context, id uint64, first entity.Player, at time.Time) (entity.Player, error) {
	key := roomKey(id)

	var seat entity.Player
	txf := func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}

		if len(fields) == 0 {
			seat = first
			room := entity.NewRoom(id, first, at)

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, fieldStatus, string(room.Status), fieldReserved, room.Reserved.String())
				touch(ctx, pipe, id, at)
				return nil
			})
			return err
		}

		room, err := decodeRoom(id, fields)
		if err != nil {
			return err
		}

		var joinErr error
		seat, joinErr = room.Join(at)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if joinErr == nil {
				pipe.HSet(ctx, key, fieldStatus, string(room.Status))
			}
			touch(ctx, pipe, id, at)
			return nil
		})
		if err != nil {
			return err
		}

		return joinErr
	}

	if err := that.watch(ctx, txf, key); err != nil {
		return false, err
	}

	return seat, nil
}

func (that *redisRooms) Post(ctx context.Context, id uint64, player entity.Player, board string, at time.Time) error {
	key := roomKey(id)

	txf := func(tx *redis.Tx) error {
		if err := mustExist(ctx, tx, key); err != nil {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, mailKey(id, player), board)
			touch(ctx, pipe, id, at)
			return nil
		})
		return err
	}

	return that.watch(ctx, txf, key)
}

func (that *redisRooms) Fetch(ctx context.Context, id uint64, player entity.Player, at time.Time) (string, bool, error) {
	key := roomKey(id)

	var pop *redis.StringCmd
	txf := func(tx *redis.Tx) error {
		if err := mustExist(ctx, tx, key); err != nil {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pop = pipe.LPop(ctx, mailKey(id, player))
			touch(ctx, pipe, id, at)
			return nil
		})
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		return nil
	}

	if err := that.watch(ctx, txf, key); err != nil {
		return "", false, err
	}

	board, err := pop.Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to pop board: %w", err)
	}

	return board, true, nil
}

func (that *redisRooms) Delete(ctx context.Context, id uint64) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, roomKey(id), mailKey(id, entity.PlayerRed), mailKey(id, entity.PlayerBlack))
		pipe.ZRem(ctx, activityKey, member(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

func (that *redisRooms) DeleteExpired(ctx context.Context, before time.Time) ([]uint64, error) {
	members, err := sweepScript.Run(ctx, that.client, []string{activityKey}, before.UnixMilli()).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to sweep rooms: %w", err)
	}

	ids := make([]uint64, 0, len(members))
	for _, value := range members {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return ids, fmt.Errorf("failed to parse room id %q: %w", value, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// watch - runs txf under optimistic locking on keys, retrying on conflicts.
func (that *redisRooms) watch(ctx context.Context, txf func(tx *redis.Tx) error, keys ...string) error {
	for range maxTxRetries {
		err := that.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return ErrTooManyRetries
}

func mustExist(ctx context.Context, tx *redis.Tx, key string) error {
	exists, err := tx.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check room: %w", err)
	}

	if exists == 0 {
		return apperror.ErrRoomNotFound
	}

	return nil
}

func touch(ctx context.Context, pipe redis.Pipeliner, id uint64, at time.Time) {
	pipe.ZAdd(ctx, activityKey, redis.Z{Score: float64(at.UnixMilli()), Member: member(id)})
}

func decodeRoom(id uint64, fields map[string]string) (*entity.Room, error) {
	room := &entity.Room{
		ID:     id,
		Status: entity.RoomStatus(fields[fieldStatus]),
	}

	switch fields[fieldReserved] {
	case entity.PlayerRed.String():
		room.Reserved = entity.PlayerRed
	case entity.PlayerBlack.String():
		room.Reserved = entity.PlayerBlack
	default:
		return nil, fmt.Errorf("failed to decode room %d: unknown reserved colour %q", id, fields[fieldReserved])
	}

	return room, nil
}

func member(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func roomKey(id uint64) string {
	return "room:" + member(id)
}

func mailKey(id uint64, player entity.Player) string {
	return roomKey(id) + ":mail:" + player.String()
}
