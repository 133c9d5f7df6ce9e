// Package protocol holds the JSON bodies exchanged between relay clients and
// the relay server. The player field is false for Red and true for Black.
package protocol

import "github.com/rocketscienceinc/xiangqi-backend/internal/entity"

type RoomID = uint64

type ConnectRequest struct {
	Room RoomID `json:"room"`
}

// ConnectResponse - Ok is false, with the zero Player, when the room is full.
type ConnectResponse struct {
	Player entity.Player `json:"player"`
	Ok     bool          `json:"ok"`
}

type PlayRequest struct {
	Room   RoomID        `json:"room"`
	Player entity.Player `json:"player"`
	Board  string        `json:"board"`
}

type QueryRequest struct {
	Room   RoomID        `json:"room"`
	Player entity.Player `json:"player"`
}

// QueryResponse - Board is null when nothing is waiting or the room is gone.
type QueryResponse struct {
	Board *string `json:"board"`
}

type DisconnectRequest struct {
	Room RoomID `json:"room"`
}
