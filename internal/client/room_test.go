package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomID(t *testing.T) {
	assert.Equal(t, uint64(0), RoomID(""))
	assert.Equal(t, uint64('a'), RoomID("a"))
	assert.Equal(t, uint64('a')+uint64('b')*131, RoomID("ab"))
	assert.NotEqual(t, RoomID("ab"), RoomID("ba"))

	// non-ASCII code points are hashed as whole runes
	assert.Equal(t, uint64('象'), RoomID("象"))

	// long codes wrap around instead of failing
	long := strings.Repeat("xiangqi", 40)
	assert.Equal(t, RoomID(long), RoomID(long))
}
