package xiangqi

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidBoard = errors.New("invalid board string")

// Encode - serializes the board as 90 kind/color tokens, the king count, '/',
// one rank/file digit pair per king and the turn token.
func (that *Board) Encode() string {
	var builder strings.Builder
	builder.Grow(Ranks*Files*2 + 8)

	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			piece := that.cells[rank][file]
			builder.WriteByte(piece.kind.token())
			builder.WriteByte(piece.color.token())
		}
	}

	builder.WriteString(strconv.Itoa(len(that.kings)))
	builder.WriteByte('/')

	for _, king := range that.kings {
		builder.WriteByte(byte('0' + king.Rank))
		builder.WriteByte(byte('0' + king.File))
	}

	builder.WriteByte(that.turn.token())

	return builder.String()
}

// Decode - parses a board string produced by Encode. On failure it returns
// ErrInvalidBoard and no board.
func Decode(value string) (*Board, error) {
	var board Board
	reader := &tokenReader{value: value}

	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			kindToken, colorToken, ok := reader.pair()
			if !ok {
				return nil, ErrInvalidBoard
			}

			kind, ok := parseKind(kindToken)
			if !ok {
				return nil, ErrInvalidBoard
			}

			color, ok := parseColor(colorToken)
			if !ok {
				return nil, ErrInvalidBoard
			}

			board.cells[rank][file] = NewPiece(kind, color)
		}
	}

	count, ok := reader.until('/')
	if !ok {
		return nil, ErrInvalidBoard
	}

	if n, err := strconv.Atoi(count); err != nil || n != len(board.kings) {
		return nil, ErrInvalidBoard
	}

	for i := range board.kings {
		rankToken, fileToken, ok := reader.pair()
		if !ok {
			return nil, ErrInvalidBoard
		}

		king, ok := NewPosition(int(rankToken)-'0', int(fileToken)-'0').Legal()
		if !ok {
			return nil, ErrInvalidBoard
		}

		if !board.Get(king).IsKind(King) || !board.Get(king).IsColor(PieceColor(i)) {
			return nil, ErrInvalidBoard
		}

		board.kings[i] = king
	}

	turnToken, ok := reader.next()
	if !ok {
		return nil, ErrInvalidBoard
	}

	if board.turn, ok = parseColor(turnToken); !ok {
		return nil, ErrInvalidBoard
	}

	if !reader.done() {
		return nil, ErrInvalidBoard
	}

	return &board, nil
}

func (that *Board) MarshalText() ([]byte, error) {
	return []byte(that.Encode()), nil
}

// UnmarshalText - leaves the receiver untouched when the input is malformed.
func (that *Board) UnmarshalText(text []byte) error {
	board, err := Decode(string(text))
	if err != nil {
		return err
	}

	*that = *board

	return nil
}

type tokenReader struct {
	value string
	pos   int
}

func (that *tokenReader) next() (byte, bool) {
	if that.pos >= len(that.value) {
		return 0, false
	}

	c := that.value[that.pos]
	that.pos++

	return c, true
}

func (that *tokenReader) pair() (byte, byte, bool) {
	first, ok := that.next()
	if !ok {
		return 0, 0, false
	}

	second, ok := that.next()
	if !ok {
		return 0, 0, false
	}

	return first, second, true
}

// until - consumes input up to and including sep, returning what preceded it.
func (that *tokenReader) until(sep byte) (string, bool) {
	idx := strings.IndexByte(that.value[that.pos:], sep)
	if idx < 0 {
		return "", false
	}

	token := that.value[that.pos : that.pos+idx]
	that.pos += idx + 1

	return token, true
}

func (that *tokenReader) done() bool {
	return that.pos == len(that.value)
}
