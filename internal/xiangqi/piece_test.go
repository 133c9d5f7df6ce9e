package xiangqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	a := NewPosition(3, 4)
	b := NewPosition(1, -2)

	assert.Equal(t, NewPosition(4, 2), a.Add(b))
	assert.Equal(t, NewPosition(2, 6), a.Sub(b))
	assert.Equal(t, NewPosition(-3, -4), a.Neg())
	assert.Equal(t, NewPosition(2, -4), b.Scale(2))

	t.Run("Legal bounds", func(t *testing.T) {
		for _, pos := range []Position{{0, 0}, {9, 8}, {4, 4}} {
			assert.True(t, pos.IsLegal(), "%v", pos)
		}
		for _, pos := range []Position{{-1, 0}, {10, 0}, {0, 9}, {0, -1}} {
			_, ok := pos.Legal()
			assert.False(t, ok, "%v", pos)
		}
	})

	t.Run("Orthogonal directions map to adjacent diagonals", func(t *testing.T) {
		for _, dir := range MoveDirs {
			for _, diag := range dir.Diagonals() {
				sum := dir.Vector().Add(diag.Vector())
				assert.Equal(t, 3, abs(sum.Rank)+abs(sum.File), "knight jump %v + %v", dir, diag)
			}
		}
	})
}

func TestPiece(t *testing.T) {
	red := NewPiece(Rook, Red)
	black := NewPiece(Knight, Black)
	ally := NewPiece(Pawn, Red)
	empty := EmptyPiece()
	blackBitsEmpty := NewPiece(Empty, Black)

	t.Run("Color of an empty piece is absent", func(t *testing.T) {
		_, ok := empty.Color()
		assert.False(t, ok)

		_, ok = blackBitsEmpty.Color()
		assert.False(t, ok)

		color, ok := black.Color()
		assert.True(t, ok)
		assert.Equal(t, Black, color)
	})

	t.Run("Enemy and ally need two real pieces", func(t *testing.T) {
		assert.True(t, red.IsEnemy(black))
		assert.False(t, red.IsEnemy(ally))
		assert.False(t, red.IsEnemy(blackBitsEmpty))
		assert.True(t, red.IsAlly(ally))
		assert.False(t, red.IsAlly(empty))
		assert.False(t, empty.IsAlly(empty))
	})

	t.Run("Steppable squares are empty or enemy", func(t *testing.T) {
		assert.True(t, red.IsSteppable(empty))
		assert.True(t, red.IsSteppable(blackBitsEmpty))
		assert.True(t, red.IsSteppable(black))
		assert.False(t, red.IsSteppable(ally))
	})

	t.Run("Opposite toggles", func(t *testing.T) {
		assert.Equal(t, Black, Red.Opposite())
		assert.Equal(t, Red, Black.Opposite())
	})

	t.Run("Tokens", func(t *testing.T) {
		assert.Equal(t, "rr", red.String())
		assert.Equal(t, "nb", black.String())
		assert.Equal(t, "-r", empty.String())
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
