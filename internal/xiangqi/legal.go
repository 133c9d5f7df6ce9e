package xiangqi

import (
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Moves - legal destinations keyed by source square. A missing key and an
// empty slice both mean "no legal moves from here".
type Moves map[Position][]Position

func (that Moves) Contains(from, to Position) bool {
	for _, dst := range that[from] {
		if dst == to {
			return true
		}
	}
	return false
}

// Len - total number of legal (from, to) pairs.
func (that Moves) Len() int {
	total := 0
	for _, dst := range that {
		total += len(dst)
	}
	return total
}

func (that Moves) IsEmpty() bool {
	return that.Len() == 0
}

// LegalMoves - every move of the side to move that does not leave its own king
// in check. Candidates are evaluated concurrently, each on its own copy of the
// board; the call returns once all of them are done.
func LegalMoves(board *Board) Moves {
	snapshot := board.Clone()
	moves := make(Moves)

	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))

	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			from := NewPosition(rank, file)
			if !snapshot.Get(from).IsColor(snapshot.Turn()) {
				continue
			}

			for _, to := range snapshot.Reachable(from) {
				group.Go(func() error {
					if !leavesInCheck(snapshot, from, to) {
						mu.Lock()
						moves[from] = append(moves[from], to)
						mu.Unlock()
					}
					return nil
				})
			}
		}
	}

	_ = group.Wait() // tasks never fail

	for from := range moves {
		dst := moves[from]
		sort.Slice(dst, func(i, j int) bool { return dst[i].less(dst[j]) })
	}

	return moves
}

// leavesInCheck - applies the move to a copy of board and tests the mover's king.
func leavesInCheck(board *Board, from, to Position) bool {
	next := board.Clone()
	next.Force(from, to)

	return next.IsCheck()
}

type Outcome uint8

const (
	Ongoing Outcome = iota
	RedWins
	BlackWins
)

// Result - the side to move loses once it has no legal move left.
func Result(board *Board, moves Moves) Outcome {
	if !moves.IsEmpty() {
		return Ongoing
	}

	if board.Turn() == Red {
		return BlackWins
	}
	return RedWins
}
