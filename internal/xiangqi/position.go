package xiangqi

const (
	Ranks = 10
	Files = 9
)

// Position - board coordinate. Arithmetic is unchecked, use Legal to test bounds.
type Position struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func NewPosition(rank, file int) Position {
	return Position{Rank: rank, File: file}
}

func (that Position) Add(other Position) Position {
	return Position{Rank: that.Rank + other.Rank, File: that.File + other.File}
}

func (that Position) Sub(other Position) Position {
	return Position{Rank: that.Rank - other.Rank, File: that.File - other.File}
}

func (that Position) Neg() Position {
	return Position{Rank: -that.Rank, File: -that.File}
}

func (that Position) Scale(k int) Position {
	return Position{Rank: that.Rank * k, File: that.File * k}
}

// Legal - returns the position and true if it lies on the board.
func (that Position) Legal() (Position, bool) {
	if that.Rank < 0 || that.Rank >= Ranks || that.File < 0 || that.File >= Files {
		return that, false
	}

	return that, true
}

func (that Position) IsLegal() bool {
	_, ok := that.Legal()
	return ok
}

// less orders positions rank-major, then file.
func (that Position) less(other Position) bool {
	if that.Rank != other.Rank {
		return that.Rank < other.Rank
	}
	return that.File < other.File
}

type MoveDir uint8

const (
	Left MoveDir = iota
	Right
	Up
	Down
)

type DiagDir uint8

const (
	LU DiagDir = iota
	LD
	RU
	RD
)

var (
	MoveDirs = [4]MoveDir{Left, Right, Up, Down}
	DiagDirs = [4]DiagDir{LU, LD, RU, RD}
)

// Vector - unit step of the direction. Up points toward Black's back rank.
func (that MoveDir) Vector() Position {
	switch that {
	case Left:
		return Position{Rank: 0, File: -1}
	case Right:
		return Position{Rank: 0, File: 1}
	case Up:
		return Position{Rank: 1, File: 0}
	default:
		return Position{Rank: -1, File: 0}
	}
}

// Diagonals - the two diagonal directions adjacent to an orthogonal one.
func (that MoveDir) Diagonals() [2]DiagDir {
	switch that {
	case Left:
		return [2]DiagDir{LU, LD}
	case Right:
		return [2]DiagDir{RU, RD}
	case Up:
		return [2]DiagDir{LU, RU}
	default:
		return [2]DiagDir{LD, RD}
	}
}

func (that DiagDir) Vector() Position {
	switch that {
	case LU:
		return Position{Rank: 1, File: -1}
	case LD:
		return Position{Rank: -1, File: -1}
	case RU:
		return Position{Rank: 1, File: 1}
	default:
		return Position{Rank: -1, File: 1}
	}
}
