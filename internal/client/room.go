package client

const roomHashBase = 131

// RoomID - turns the room code players agree on into the relay room id.
// The hash wraps around on overflow.
func RoomID(code string) uint64 {
	var value uint64
	base := uint64(1)

	for _, c := range code {
		value += uint64(c) * base
		base *= roomHashBase
	}

	return value
}
