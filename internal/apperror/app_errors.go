package apperror

import "errors"

var (
	ErrRoomFull     = errors.New("room is already full")
	ErrRoomNotFound = errors.New("room not found")

	ErrNotConnected = errors.New("connection is not established")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrOffBoard     = errors.New("position is outside the board")
	ErrIllegalMove  = errors.New("move is illegal according to the rules")
)
