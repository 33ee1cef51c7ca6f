package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileBuilder(t *testing.T) {
	t.Parallel()

	p := NewProfile(OwnerID).
		WithPersonaName("Rabscuttle").
		WithFriend(FriendID, "Friend", TestTime(), 1).
		WithDeletedFriend(OtherID, TestTime()).
		Build()

	owner, ok := p.Primary()
	require.True(t, ok)
	assert.Equal(t, "Rabscuttle", owner.PersonaName)
	assert.Len(t, p.Friends, 2)
	assert.Len(t, p.Summaries, 2)
	assert.Len(t, p.Bans, 3)

	private := NewProfile(OwnerID).WithPrivateFriends().Build()
	assert.False(t, private.FriendsVisible())
}
