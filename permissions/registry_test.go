package permissions

import (
	"path/filepath"
	"testing"

	"investmanager.com/db"
	"investmanager.com/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("SQLITE", filepath.Join(t.TempDir(), "perm.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func seed(t *testing.T, conn *gorm.DB) (types.User, types.User, types.Account) {
	t.Helper()
	admin := types.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", IsAdmin: true}
	alice := types.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, conn.Create(&admin).Error)
	require.NoError(t, conn.Create(&alice).Error)
	acct := types.Account{Name: "Growth"}
	require.NoError(t, conn.Create(&acct).Error)
	return admin, alice, acct
}

func TestCheckMatrix(t *testing.T) {
	cases := []struct {
		level   types.AccessLevel
		action  Action
		allowed bool
		msg     string
	}{
		{types.FullAccess, Read, true, ""},
		{types.FullAccess, Write, true, ""},
		{types.ViewOnly, Read, true, ""},
		{types.ViewOnly, Write, false, "view-only"},
		{types.PostOnly, Read, false, "post-only"},
		{types.PostOnly, Write, true, ""},
		{types.NoAccess, Read, false, "no access to this account"},
		{types.NoAccess, Write, false, "no access to this account"},
	}
	for _, c := range cases {
		err := Check(c.level, c.action)
		if c.allowed {
			assert.NoError(t, err, "%s/%s", c.level, c.action)
			continue
		}
		assert.ErrorIs(t, err, types.ErrAccessDenied)
		assert.Equal(t, c.msg, types.MessageOf(err))
	}
}

func TestLevelOfMissingRecordIsNoAccess(t *testing.T) {
	conn := setupDB(t)
	_, alice, acct := seed(t, conn)
	reg := NewRegistry(conn)

	level, err := reg.LevelOf(nil, alice.ID, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NoAccess, level)
	assert.ErrorIs(t, reg.Require(nil, alice.ID, acct.ID, Read), types.ErrAccessDenied)
}

func TestGrantRequiresAdmin(t *testing.T) {
	conn := setupDB(t)
	admin, alice, acct := seed(t, conn)
	reg := NewRegistry(conn)

	_, err := reg.Grant(types.Actor{UserID: alice.ID}, alice.ID, acct.ID, types.FullAccess)
	assert.ErrorIs(t, err, types.ErrAccessDenied)

	p, err := reg.Grant(types.Actor{UserID: admin.ID, IsAdmin: true}, alice.ID, acct.ID, types.PostOnly)
	require.NoError(t, err)
	assert.Equal(t, types.PostOnly, p.Level)

	var loaded types.Account
	require.NoError(t, conn.Preload("Members").First(&loaded, acct.ID).Error)
	require.Len(t, loaded.Members, 1)
	assert.Equal(t, alice.ID, loaded.Members[0].ID)

	_, err = reg.Grant(types.Actor{UserID: admin.ID, IsAdmin: true}, alice.ID, acct.ID, types.ViewOnly)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestGrantRejectsUnknownLevel(t *testing.T) {
	conn := setupDB(t)
	admin, alice, acct := seed(t, conn)
	reg := NewRegistry(conn)

	_, err := reg.Grant(types.Actor{UserID: admin.ID, IsAdmin: true}, alice.ID, acct.ID, "owner")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestUpdateAndRevoke(t *testing.T) {
	conn := setupDB(t)
	admin, alice, acct := seed(t, conn)
	reg := NewRegistry(conn)
	adminActor := types.Actor{UserID: admin.ID, IsAdmin: true}

	p, err := reg.Grant(adminActor, alice.ID, acct.ID, types.ViewOnly)
	require.NoError(t, err)
	assert.Error(t, reg.Require(nil, alice.ID, acct.ID, Write))

	_, err = reg.Update(adminActor, p.ID, types.FullAccess)
	require.NoError(t, err)
	assert.NoError(t, reg.Require(nil, alice.ID, acct.ID, Write))

	require.NoError(t, reg.Revoke(adminActor, p.ID))
	level, err := reg.LevelOf(nil, alice.ID, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NoAccess, level)

	_, err = reg.Update(adminActor, p.ID, types.ViewOnly)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestReadableAccountsSkipsPostOnly(t *testing.T) {
	conn := setupDB(t)
	_, alice, acct := seed(t, conn)
	other := types.Account{Name: "Income"}
	require.NoError(t, conn.Create(&other).Error)
	reg := NewRegistry(conn)

	require.NoError(t, conn.Create(&types.Permission{UserID: alice.ID, AccountID: acct.ID, Level: types.ViewOnly}).Error)
	require.NoError(t, conn.Create(&types.Permission{UserID: alice.ID, AccountID: other.ID, Level: types.PostOnly}).Error)

	ids, err := reg.ReadableAccounts(nil, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{acct.ID}, ids)
}

func TestDecide(t *testing.T) {
	admin := types.Actor{UserID: 1, IsAdmin: true}
	user := types.Actor{UserID: 2}

	assert.True(t, Decide(admin, ManagePermissions, types.NoAccess).Allowed)
	assert.False(t, Decide(user, ManagePermissions, types.FullAccess).Allowed)
	assert.False(t, Decide(user, UserReports, types.FullAccess).Allowed)
	assert.True(t, Decide(user, EditAccount, types.FullAccess).Allowed)
	assert.False(t, Decide(user, DeleteAccount, types.ViewOnly).Allowed)
	assert.True(t, Decide(admin, DeleteAccount, types.NoAccess).Allowed)
}
