package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/core/id"
)

func testUser() *User {
	role := NewRole("manager")
	role.CanCreateReservation = true
	role.CanViewReports = true

	user := NewUser("Ayse.Manager", "hash", role.ID)
	user.Role = role
	return user
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := testUser()

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), expiresAt, time.Minute)

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "ayse.manager", uc.Username, "usernames are lowercased")
	assert.ElementsMatch(t, []string{PermCreateReservation, PermViewReports}, uc.Permissions)
	assert.False(t, uc.IsSuperadmin)
}

func TestSuperadminFlagCarried(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := testUser()
	user.Role.IsSuperadmin = true

	token, _, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, uc.IsSuperadmin)
	assert.True(t, uc.HasPermission("anything at all"))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestRolePermissionsFlatten(t *testing.T) {
	role := NewRole("audit")
	role.CanViewLogs = true
	role.CanViewSettings = true
	role.CanViewManagement = true

	assert.ElementsMatch(t,
		[]string{PermViewLogs, PermViewSettings, PermViewManagement},
		role.Permissions())

	assert.Empty(t, NewRole("none").Permissions())
}

func TestUserLockout(t *testing.T) {
	user := NewUser("reception", "hash", id.New())

	for i := 0; i < 4; i++ {
		user.RecordFailedLogin(5, 15*time.Minute)
		assert.NoError(t, user.CanLogin(), "attempt %d should not lock", i+1)
	}

	user.RecordFailedLogin(5, 15*time.Minute)
	assert.True(t, user.IsLocked())
	assert.Error(t, user.CanLogin())

	user.RecordSuccessfulLogin()
	assert.False(t, user.IsLocked())
	assert.NoError(t, user.CanLogin())
}
