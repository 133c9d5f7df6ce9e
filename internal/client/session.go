package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
	"github.com/rocketscienceinc/xiangqi-backend/internal/xiangqi"
)

// DefaultPollInterval - how often Watch asks the relay for the opponent's move.
const DefaultPollInterval = time.Second

type relayAPI interface {
	Connect(ctx context.Context, room uint64) (entity.Player, error)
	Play(ctx context.Context, room uint64, player entity.Player, board string) error
	Query(ctx context.Context, room uint64, player entity.Player) (string, bool, error)
	Disconnect(ctx context.Context, room uint64) error
}

// Session - one player's view of a game: the local board, the legal moves for
// the side to move and the relay room it is seated in. Safe for concurrent use.
type Session struct {
	logger *slog.Logger
	relay  relayAPI

	mu     sync.Mutex
	board  *xiangqi.Board
	moves  xiangqi.Moves
	room   uint64
	player *entity.Player
}

func NewSession(logger *slog.Logger, relay relayAPI) *Session {
	session := &Session{
		logger: logger.With("component", "session"),
		relay:  relay,
	}
	session.reset()

	return session
}

// Connect - joins the room derived from code and starts a fresh game.
func (that *Session) Connect(ctx context.Context, code string) (xiangqi.PieceColor, error) {
	log := that.logger.With("method", "Connect")

	room := RoomID(code)

	player, err := that.relay.Connect(ctx, room)
	if err != nil {
		log.Warn("failed to connect", "room", room, "error", err)
		return xiangqi.Red, fmt.Errorf("failed to connect to room: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.reset()
	that.room = room
	that.player = &player

	log.Info("connected", "room", room, "color", colorOf(player).String())

	return colorOf(player), nil
}

func (that *Session) IsConnected() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.player != nil
}

// Player - the colour this session plays, false before Connect.
func (that *Session) Player() (xiangqi.PieceColor, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.player == nil {
		return xiangqi.Red, false
	}

	return colorOf(*that.player), true
}

func (that *Session) Get(pos xiangqi.Position) xiangqi.Piece {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Get(pos)
}

func (that *Session) Turn() xiangqi.PieceColor {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Turn()
}

// Board - a copy of the local board.
func (that *Session) Board() *xiangqi.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Clone()
}

// Moves - a copy of the legal moves for the side to move.
func (that *Session) Moves() xiangqi.Moves {
	that.mu.Lock()
	defer that.mu.Unlock()

	moves := make(xiangqi.Moves, len(that.moves))
	for from, dst := range that.moves {
		moves[from] = append([]xiangqi.Position(nil), dst...)
	}

	return moves
}

// Result - who has won on the local board, if anyone.
func (that *Session) Result() xiangqi.Outcome {
	that.mu.Lock()
	defer that.mu.Unlock()

	return xiangqi.Result(that.board, that.moves)
}

// SubmitMove - plays from->to locally and sends the new board to the opponent.
// A rejected move leaves the session untouched. When the relay no longer knows
// the room the session ends and apperror.ErrRoomNotFound is returned.
func (that *Session) SubmitMove(ctx context.Context, from, to xiangqi.Position) error {
	log := that.logger.With("method", "SubmitMove")

	that.mu.Lock()

	if err := that.verify(from, to); err != nil {
		that.mu.Unlock()
		log.Warn("move rejected", "from", from, "to", to, "error", err)
		return err
	}

	that.board.Force(from, to)
	that.board.NextTurn()
	that.moves = xiangqi.LegalMoves(that.board)

	room, player, board := that.room, *that.player, that.board.Encode()
	that.mu.Unlock()

	err := that.relay.Play(ctx, room, player, board)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		log.Warn("room is gone, leaving game", "room", room)
		that.end(room)
		return err
	}

	if err != nil {
		return fmt.Errorf("failed to send move: %w", err)
	}

	log.Info("move sent", "from", from, "to", to)

	return nil
}

// verify - checks run in order: connection, turn, board bounds, legality.
func (that *Session) verify(from, to xiangqi.Position) error {
	if that.player == nil {
		return apperror.ErrNotConnected
	}

	if that.board.Turn() != colorOf(*that.player) {
		return apperror.ErrNotYourTurn
	}

	if !from.IsLegal() || !to.IsLegal() {
		return apperror.ErrOffBoard
	}

	if !that.moves.Contains(from, to) {
		return apperror.ErrIllegalMove
	}

	return nil
}

// Poll - adopts the next board the opponent sent, if any. A malformed board is
// reported and leaves the session as it was.
func (that *Session) Poll(ctx context.Context) (bool, error) {
	that.mu.Lock()
	if that.player == nil {
		that.mu.Unlock()
		return false, apperror.ErrNotConnected
	}
	room, player := that.room, *that.player
	that.mu.Unlock()

	value, ok, err := that.relay.Query(ctx, room, player)
	if err != nil {
		return false, fmt.Errorf("failed to query board: %w", err)
	}

	if !ok {
		return false, nil
	}

	board, err := xiangqi.Decode(value)
	if err != nil {
		that.logger.Warn("ignoring malformed board", "method", "Poll", "room", room, "error", err)
		return false, fmt.Errorf("failed to decode board: %w", err)
	}

	moves := xiangqi.LegalMoves(board)

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.player == nil || that.room != room {
		return false, nil
	}

	that.board = board
	that.moves = moves

	return true, nil
}

// Watch - polls every interval until ctx is done or the session ends.
// Failed polls are logged and retried on the next tick.
func (that *Session) Watch(ctx context.Context, interval time.Duration, onUpdate func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		updated, err := that.Poll(ctx)
		if errors.Is(err, apperror.ErrNotConnected) {
			return err
		}

		if err != nil {
			that.logger.Warn("poll failed", "method", "Watch", "error", err)
			continue
		}

		if updated && onUpdate != nil {
			onUpdate()
		}
	}
}

// Leave - closes the room on the relay and returns to the pre-game state.
func (that *Session) Leave(ctx context.Context) error {
	that.mu.Lock()
	if that.player == nil {
		that.mu.Unlock()
		return nil
	}
	room := that.room
	that.mu.Unlock()

	that.end(room)

	if err := that.relay.Disconnect(ctx, room); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	return nil
}

// end - drops the connection if the session is still in room.
func (that *Session) end(room uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.player != nil && that.room == room {
		that.reset()
	}
}

func (that *Session) reset() {
	that.board = xiangqi.NewBoard()
	that.moves = xiangqi.LegalMoves(that.board)
	that.room = 0
	that.player = nil
}

func colorOf(player entity.Player) xiangqi.PieceColor {
	if player == entity.PlayerRed {
		return xiangqi.Red
	}
	return xiangqi.Black
}
