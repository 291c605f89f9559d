package user

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAnonymous     Role = "ANONYMOUS"
	RoleAuthenticated Role = "AUTHENTICATED"
	RoleManager       Role = "MANAGER"
	RoleAdmin         Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAnonymous, RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps a role name to its Role value.
func ParseRole(name string) (Role, error) {
	r := Role(name)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", name)
	}
	return r, nil
}

type User struct {
	ID                string `gorm:"primaryKey;size:20"`
	Nickname          string `gorm:"uniqueIndex;not null"`
	Email             string `gorm:"uniqueIndex;not null"`
	HashedPassword    string `gorm:"not null"`
	Role              Role   `gorm:"type:varchar(16);not null;default:'AUTHENTICATED'"`
	EmailVerified     bool   `gorm:"default:false"`
	VerificationToken string

	FailedLoginAttempts int  `gorm:"default:0"`
	IsLocked            bool `gorm:"default:false"`

	FirstName          string
	LastName           string
	Bio                string
	ProfilePictureURL  string
	LinkedInProfileURL string
	GitHubProfileURL   string

	IsProfessional              bool `gorm:"default:false"`
	ProfessionalStatusUpdatedAt *time.Time
	LastLoginAt                 *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasRole(role Role) bool {
	return u.Role == role
}

// LockAccount is the administrative lock toggle. It is independent of the
// failed-attempt counter; locking an already locked account changes nothing.
func (u *User) LockAccount() {
	u.IsLocked = true
}

// UnlockAccount clears the lock and zeroes the failure counter so the next
// attempt starts from a clean slate.
func (u *User) UnlockAccount() {
	u.IsLocked = false
	u.FailedLoginAttempts = 0
}

// VerifyEmail marks the address verified and burns the token. Idempotent.
func (u *User) VerifyEmail() {
	u.EmailVerified = true
	u.VerificationToken = ""
}

// UpdateProfessionalStatus sets the flag and re-stamps the update time on
// every call, even when the value is unchanged.
func (u *User) UpdateProfessionalStatus(professional bool) {
	u.IsProfessional = professional
	now := time.Now().UTC()
	u.ProfessionalStatusUpdatedAt = &now
}
