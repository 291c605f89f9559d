package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "anonymous", input: "ANONYMOUS", want: RoleAnonymous},
		{name: "authenticated", input: "AUTHENTICATED", want: RoleAuthenticated},
		{name: "manager", input: "MANAGER", want: RoleManager},
		{name: "admin", input: "ADMIN", want: RoleAdmin},
		{name: "unknown", input: "SUPERUSER", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "lower case is not accepted", input: "admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, role)
			assert.True(t, role.Valid())
		})
	}
}

func TestUser_HasRole(t *testing.T) {
	u := &User{Role: RoleAuthenticated}
	assert.True(t, u.HasRole(RoleAuthenticated))
	assert.False(t, u.HasRole(RoleAdmin))

	admin := &User{Role: RoleAdmin}
	assert.True(t, admin.HasRole(RoleAdmin))
}

func TestUser_LockUnlock(t *testing.T) {
	u := &User{FailedLoginAttempts: 3}

	assert.False(t, u.IsLocked)

	u.LockAccount()
	assert.True(t, u.IsLocked)

	// Locking again is a no-op
	u.LockAccount()
	assert.True(t, u.IsLocked)

	u.UnlockAccount()
	assert.False(t, u.IsLocked)
	assert.Equal(t, 0, u.FailedLoginAttempts)
}

func TestUser_VerifyEmail(t *testing.T) {
	u := &User{VerificationToken: "tok"}
	assert.False(t, u.EmailVerified)

	u.VerifyEmail()
	assert.True(t, u.EmailVerified)
	assert.Empty(t, u.VerificationToken)

	// Verifying twice leaves the state unchanged and is not an error
	u.VerifyEmail()
	assert.True(t, u.EmailVerified)
}

func TestUser_UpdateProfessionalStatus(t *testing.T) {
	u := &User{}
	assert.Nil(t, u.ProfessionalStatusUpdatedAt)

	u.UpdateProfessionalStatus(true)
	require.NotNil(t, u.ProfessionalStatusUpdatedAt)
	assert.True(t, u.IsProfessional)
	first := *u.ProfessionalStatusUpdatedAt

	time.Sleep(10 * time.Millisecond)

	// Setting the same value again still re-stamps the timestamp
	u.UpdateProfessionalStatus(true)
	require.NotNil(t, u.ProfessionalStatusUpdatedAt)
	assert.True(t, u.ProfessionalStatusUpdatedAt.After(first))

	u.UpdateProfessionalStatus(false)
	assert.False(t, u.IsProfessional)
	assert.NotNil(t, u.ProfessionalStatusUpdatedAt)
}
