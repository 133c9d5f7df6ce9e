package xiangqi

// Reachable - squares the piece at from can move to, ignoring whether the move
// leaves its own king in check.
func (that *Board) Reachable(from Position) []Position {
	piece := that.Get(from)

	switch piece.Kind() {
	case Pawn:
		return that.pawnMoves(from, piece)
	case Cannon:
		return that.cannonMoves(from, piece)
	case King:
		return that.kingMoves(from, piece)
	case Advisor:
		return that.advisorMoves(from, piece)
	case Bishop:
		return that.bishopMoves(from, piece)
	case Knight:
		return that.knightMoves(from, piece)
	case Rook:
		return that.rookMoves(from, piece)
	default:
		return nil
	}
}

// step - appends to if it is on the board and piece may land there.
func (that *Board) step(moves []Position, piece Piece, to Position) []Position {
	if pos, ok := to.Legal(); ok && piece.IsSteppable(that.Get(pos)) {
		return append(moves, pos)
	}
	return moves
}

func (that *Board) pawnMoves(from Position, piece Piece) []Position {
	moves := that.step(nil, piece, from.Add(piece.color.forward().Vector()))

	if crossedRiver(from, piece.color) {
		moves = that.step(moves, piece, from.Add(Left.Vector()))
		moves = that.step(moves, piece, from.Add(Right.Vector()))
	}

	return moves
}

func (that *Board) rookMoves(from Position, piece Piece) []Position {
	var moves []Position

	for _, dir := range MoveDirs {
		for to := from.Add(dir.Vector()); to.IsLegal(); to = to.Add(dir.Vector()) {
			target := that.Get(to)
			if target.IsEmpty() {
				moves = append(moves, to)
				continue
			}

			if piece.IsEnemy(target) {
				moves = append(moves, to)
			}
			break
		}
	}

	return moves
}

func (that *Board) cannonMoves(from Position, piece Piece) []Position {
	var moves []Position

	for _, dir := range MoveDirs {
		to := from.Add(dir.Vector())
		for ; to.IsLegal() && that.Get(to).IsEmpty(); to = to.Add(dir.Vector()) {
			moves = append(moves, to)
		}

		// to is now the screen, or off the board
		for to = to.Add(dir.Vector()); to.IsLegal(); to = to.Add(dir.Vector()) {
			target := that.Get(to)
			if target.IsEmpty() {
				continue
			}

			if piece.IsEnemy(target) {
				moves = append(moves, to)
			}
			break
		}
	}

	return moves
}

func (that *Board) kingMoves(from Position, piece Piece) []Position {
	var moves []Position

	for _, dir := range MoveDirs {
		to := from.Add(dir.Vector())
		if inPalace(to, piece.color) {
			moves = that.step(moves, piece, to)
		}
	}

	// flying general
	forward := piece.color.forward().Vector()
	for to := from.Add(forward); to.IsLegal(); to = to.Add(forward) {
		target := that.Get(to)
		if target.IsEmpty() {
			continue
		}

		if target.IsKind(King) && piece.IsEnemy(target) {
			moves = append(moves, to)
		}
		break
	}

	return moves
}

func (that *Board) advisorMoves(from Position, piece Piece) []Position {
	var moves []Position

	for _, dir := range DiagDirs {
		to := from.Add(dir.Vector())
		if inPalace(to, piece.color) {
			moves = that.step(moves, piece, to)
		}
	}

	return moves
}

func (that *Board) bishopMoves(from Position, piece Piece) []Position {
	var moves []Position

	for _, dir := range DiagDirs {
		eye, ok := from.Add(dir.Vector()).Legal()
		if !ok || !that.Get(eye).IsEmpty() {
			continue
		}

		to := from.Add(dir.Vector().Scale(2))
		if to.IsLegal() && !crossedRiver(to, piece.color) {
			moves = that.step(moves, piece, to)
		}
	}

	return moves
}

func (that *Board) knightMoves(from Position, piece Piece) []Position {
	var moves []Position

	for _, dir := range MoveDirs {
		leg, ok := from.Add(dir.Vector()).Legal()
		if !ok || !that.Get(leg).IsEmpty() {
			continue
		}

		for _, diag := range dir.Diagonals() {
			moves = that.step(moves, piece, leg.Add(diag.Vector()))
		}
	}

	return moves
}

// crossedRiver - reports whether pos lies on the enemy half for color.
func crossedRiver(pos Position, color PieceColor) bool {
	if color == Red {
		return pos.Rank >= Ranks/2
	}
	return pos.Rank < Ranks/2
}

// inPalace - files 3-5 and the three ranks nearest color's back rank.
func inPalace(pos Position, color PieceColor) bool {
	if pos.File < 3 || pos.File > 5 {
		return false
	}

	if color == Red {
		return pos.Rank >= 0 && pos.Rank <= 2
	}
	return pos.Rank >= Ranks-3 && pos.Rank < Ranks
}
