package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKey_IsOrderIndependent(t *testing.T) {
	assert.Equal(t, "3:7", PairKey(3, 7))
	assert.Equal(t, "3:7", PairKey(7, 3))
	assert.Equal(t, PairKey(1, 2), NewRoom(2, 1).PairKey)
}

func TestRoom_Participants(t *testing.T) {
	room := NewRoom(1, 2)

	assert.True(t, room.IsParticipant(1))
	assert.True(t, room.IsParticipant(2))
	assert.False(t, room.IsParticipant(3))
	assert.False(t, room.IsParticipant(0))

	assert.True(t, room.IsSender(1))
	assert.False(t, room.IsSender(2))

	assert.Equal(t, uint(2), room.OtherID(1))
	assert.Equal(t, uint(1), room.OtherID(2))
}

func TestVisibilitiesFor(t *testing.T) {
	assert.ElementsMatch(t, []Visibility{VisibleBoth, VisibleSenderOnly}, VisibilitiesFor(true))
	assert.ElementsMatch(t, []Visibility{VisibleBoth, VisibleReceiverOnly}, VisibilitiesFor(false))
}
