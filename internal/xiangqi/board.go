package xiangqi

var backRank = [Files]PieceKind{Rook, Knight, Bishop, Advisor, King, Advisor, Bishop, Knight, Rook}

// Board - 10x9 grid, rank 0 is Red's back rank. The board is a plain value:
// copying it yields an independent snapshot.
type Board struct {
	cells [Ranks][Files]Piece
	kings [2]Position
	turn  PieceColor
}

// NewBoard - returns the standard opening position with Red to move.
func NewBoard() *Board {
	board := &Board{turn: Red}

	for _, side := range []struct {
		color           PieceColor
		back, gun, pawn int
	}{
		{color: Red, back: 0, gun: 2, pawn: 3},
		{color: Black, back: 9, gun: 7, pawn: 6},
	} {
		for file, kind := range backRank {
			board.cells[side.back][file] = NewPiece(kind, side.color)
		}

		board.cells[side.gun][1] = NewPiece(Cannon, side.color)
		board.cells[side.gun][7] = NewPiece(Cannon, side.color)

		for file := 0; file < Files; file += 2 {
			board.cells[side.pawn][file] = NewPiece(Pawn, side.color)
		}

		board.kings[side.color] = NewPosition(side.back, 4)
	}

	return board
}

// Get - returns the piece at pos. pos must be legal.
func (that *Board) Get(pos Position) Piece {
	return that.cells[pos.Rank][pos.File]
}

func (that *Board) Turn() PieceColor {
	return that.turn
}

// King - location of the king of the given color.
func (that *Board) King(color PieceColor) Position {
	return that.kings[color]
}

// Force - moves the piece at from onto to without any legality check.
func (that *Board) Force(from, to Position) {
	piece := that.Get(from)
	that.cells[from.Rank][from.File] = EmptyPiece()
	that.cells[to.Rank][to.File] = piece

	if piece.IsKind(King) {
		that.kings[piece.color] = to
	}
}

func (that *Board) NextTurn() {
	that.turn = that.turn.Opposite()
}

func (that *Board) Clone() *Board {
	clone := *that
	return &clone
}

// Equal - reports whether both boards hold the same cells, kings and turn.
func (that *Board) Equal(other *Board) bool {
	return *that == *other
}

// IsCheck - reports whether the side to move has its king attacked.
func (that *Board) IsCheck() bool {
	king := that.kings[that.turn]
	enemy := that.turn.Opposite()

	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			pos := NewPosition(rank, file)
			if !that.Get(pos).IsColor(enemy) {
				continue
			}

			for _, to := range that.Reachable(pos) {
				if to == king {
					return true
				}
			}
		}
	}

	return false
}
