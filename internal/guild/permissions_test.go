package guild_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablebot/sable/internal/guild"
	"github.com/sablebot/sable/pkg/permissions"
)

// fakeChecker returns canned permission sets keyed by (guild, user).
type fakeChecker struct {
	members map[[2]int64]permissions.Set
	calls   int
}

func (f *fakeChecker) MemberPermissions(_ context.Context, guildID, userID int64) (permissions.Set, error) {
	f.calls++
	return f.members[[2]int64{guildID, userID}], nil
}

func TestHasAdministrator(t *testing.T) {
	const guildID = 42

	checker := &fakeChecker{members: map[[2]int64]permissions.Set{
		{guildID, 1}: permissions.Administrator,
		{guildID, 2}: permissions.ManageMessages,
		// user 3 has no membership row at all
	}}

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{"administrator", 1, true},
		{"moderator_without_admin", 2, false},
		{"not_a_member", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := guild.HasAdministrator(context.Background(), checker, guildID, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestPermissionSet_AdministratorImpliesAll(t *testing.T) {
	admin := permissions.Administrator

	assert.True(t, admin.Has(permissions.ManageMessages))
	assert.True(t, admin.Has(permissions.Administrator))

	moderator := permissions.ManageMessages
	assert.True(t, moderator.Has(permissions.ManageMessages))
	assert.False(t, moderator.Has(permissions.Administrator))
}
