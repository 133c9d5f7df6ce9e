package entity

// Player - the colour tag a relay client plays with. On the wire it is a
// boolean: false is Red, true is Black.
type Player bool

const (
	PlayerRed   Player = false
	PlayerBlack Player = true
)

func (that Player) Opponent() Player {
	return !that
}

func (that Player) String() string {
	if that == PlayerRed {
		return "red"
	}
	return "black"
}
