package entity

import (
	"time"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
)

type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusFull    RoomStatus = "full"
)

// Room - a game session between two players. Each player has a mailbox holding
// the boards its opponent sent and it has not read yet.
type Room struct {
	ID       uint64     `json:"id"`
	Status   RoomStatus `json:"status"`
	Reserved Player     `json:"reserved"`

	Mailboxes [2][]string `json:"mailboxes"`

	LastActivity time.Time `json:"last_activity"`
}

// NewRoom - creates a room whose first player got first. The opposite colour is
// kept for whoever joins next.
func NewRoom(id uint64, first Player, at time.Time) *Room {
	return &Room{
		ID:           id,
		Status:       StatusWaiting,
		Reserved:     first.Opponent(),
		LastActivity: at,
	}
}

// Join - seats the second player. A full room refuses and still counts as activity.
func (that *Room) Join(at time.Time) (Player, error) {
	that.Touch(at)

	if that.IsFull() {
		return false, apperror.ErrRoomFull
	}

	that.Status = StatusFull

	return that.Reserved, nil
}

func (that *Room) IsFull() bool {
	return that.Status == StatusFull
}

// Push - appends board to the mailbox of player.
func (that *Room) Push(player Player, board string, at time.Time) {
	that.Touch(at)
	that.Mailboxes[mailbox(player)] = append(that.Mailboxes[mailbox(player)], board)
}

// Pop - removes the oldest board waiting for player.
func (that *Room) Pop(player Player, at time.Time) (string, bool) {
	that.Touch(at)

	queue := that.Mailboxes[mailbox(player)]
	if len(queue) == 0 {
		return "", false
	}

	board := queue[0]
	queue[0] = ""
	that.Mailboxes[mailbox(player)] = queue[1:]

	return board, true
}

func (that *Room) Touch(at time.Time) {
	that.LastActivity = at
}

// IsExpired - reports whether the room saw no activity since before.
func (that *Room) IsExpired(before time.Time) bool {
	return that.LastActivity.Before(before)
}

func mailbox(player Player) int {
	if player == PlayerRed {
		return 0
	}
	return 1
}
