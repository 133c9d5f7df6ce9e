package xiangqi

type PieceKind uint8

const (
	Empty PieceKind = iota
	Pawn
	Cannon
	King
	Advisor
	Bishop
	Knight
	Rook
)

var kindTokens = [...]byte{
	Empty:   '-',
	Pawn:    'p',
	Cannon:  'c',
	King:    'k',
	Advisor: 'a',
	Bishop:  'b',
	Knight:  'n',
	Rook:    'r',
}

func (that PieceKind) token() byte {
	return kindTokens[that]
}

func parseKind(c byte) (PieceKind, bool) {
	for kind, token := range kindTokens {
		if token == c {
			return PieceKind(kind), true
		}
	}
	return Empty, false
}

type PieceColor uint8

const (
	Red PieceColor = iota
	Black
)

func (that PieceColor) Opposite() PieceColor {
	if that == Red {
		return Black
	}
	return Red
}

func (that PieceColor) String() string {
	if that == Red {
		return "red"
	}
	return "black"
}

func (that PieceColor) token() byte {
	if that == Red {
		return 'r'
	}
	return 'b'
}

func parseColor(c byte) (PieceColor, bool) {
	switch c {
	case 'r':
		return Red, true
	case 'b':
		return Black, true
	default:
		return Red, false
	}
}

// forward - rank step toward the enemy side.
func (that PieceColor) forward() MoveDir {
	if that == Red {
		return Up
	}
	return Down
}

// Piece - the color bits of an Empty piece carry no meaning.
type Piece struct {
	kind  PieceKind
	color PieceColor
}

func NewPiece(kind PieceKind, color PieceColor) Piece {
	return Piece{kind: kind, color: color}
}

func EmptyPiece() Piece {
	return Piece{}
}

func (that Piece) Kind() PieceKind {
	return that.kind
}

// Color - returns false for an Empty piece regardless of the stored bits.
func (that Piece) Color() (PieceColor, bool) {
	if that.IsEmpty() {
		return Red, false
	}
	return that.color, true
}

func (that Piece) IsEmpty() bool {
	return that.kind == Empty
}

func (that Piece) IsKind(kind PieceKind) bool {
	return that.kind == kind
}

func (that Piece) IsColor(color PieceColor) bool {
	return !that.IsEmpty() && that.color == color
}

func (that Piece) IsEnemy(other Piece) bool {
	return !that.IsEmpty() && !other.IsEmpty() && that.color != other.color
}

func (that Piece) IsAlly(other Piece) bool {
	return !that.IsEmpty() && !other.IsEmpty() && that.color == other.color
}

// IsSteppable - reports whether this piece may move onto other.
func (that Piece) IsSteppable(other Piece) bool {
	return other.IsEmpty() || that.IsEnemy(other)
}

func (that Piece) String() string {
	return string([]byte{that.kind.token(), that.color.token()})
}
