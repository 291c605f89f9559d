package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/virell/accountd/internal/config"
	"github.com/virell/accountd/internal/notify"
)

type Service struct {
	config     *config.AuthConfig
	log        *zap.Logger
	repository Repository
	mailer     notify.Sender
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func NewService(config *config.AuthConfig, log *zap.Logger, repo Repository, mailer notify.Sender) *Service {
	return &Service{
		config:     config,
		log:        log,
		repository: repo,
		mailer:     mailer,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (s *Service) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *Service) GenerateToken(user *User) (string, error) {
	expirationTime := time.Now().Add(s.config.TokenExpiration)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// CreateParams carries the accepted fields for creating a user. Role may
// be left empty to get the AUTHENTICATED default; only privileged callers
// should pass anything else.
type CreateParams struct {
	Nickname  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Bio       string
}

func (s *Service) Create(params CreateParams) (*User, error) {
	if err := validateNickname(params.Nickname); err != nil {
		return nil, err
	}
	if err := validateEmail(params.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(params.Password); err != nil {
		return nil, err
	}

	role := RoleAuthenticated
	if params.Role != "" {
		parsed, err := ParseRole(params.Role)
		if err != nil {
			return nil, invalidField("role", err.Error())
		}
		role = parsed
	}

	if _, err := s.repository.GetByEmail(params.Email); err == nil {
		return nil, ErrUserExists
	}
	if _, err := s.repository.GetByNickname(params.Nickname); err == nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:                xid.New().String(),
		Nickname:          params.Nickname,
		Email:             params.Email,
		HashedPassword:    hashedPassword,
		Role:              role,
		VerificationToken: xid.New().String(),
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Bio:               params.Bio,
	}

	if err := s.repository.Create(user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationEmail(user.Email, user.Nickname, user.VerificationToken); err != nil {
		s.log.Error("failed to send verification email",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	return user, nil
}

// Register is the self-serve entry point: the role is always the default
// and a nickname is generated when the caller did not choose one.
func (s *Service) Register(params CreateParams) (*User, error) {
	params.Role = ""
	if params.Nickname == "" {
		params.Nickname = generateNickname()
	}
	return s.Create(params)
}

func generateNickname() string {
	return fmt.Sprintf("user_%s", xid.New().String())
}

func (s *Service) GetByID(id string) (*User, error) {
	return s.repository.GetByID(id)
}

func (s *Service) GetByNickname(nickname string) (*User, error) {
	return s.repository.GetByNickname(nickname)
}

func (s *Service) GetByEmail(email string) (*User, error) {
	return s.repository.GetByEmail(email)
}

func (s *Service) List(skip, limit int) ([]*User, error) {
	return s.repository.List(skip, limit)
}

// UpdateParams holds the recognized updatable fields. Nil means "leave
// unchanged"; a supplied value must pass its own validation or the whole
// update is rejected.
type UpdateParams struct {
	Nickname           *string
	Email              *string
	Role               *string
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePictureURL  *string
	LinkedInProfileURL *string
	GitHubProfileURL   *string
}

func (s *Service) Update(id string, params UpdateParams) (*User, error) {
	user, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Validate everything before touching the record so a failed update
	// leaves it unchanged.
	if params.Nickname != nil {
		if err := validateNickname(*params.Nickname); err != nil {
			return nil, err
		}
	}
	if params.Email != nil {
		if err := validateEmail(*params.Email); err != nil {
			return nil, err
		}
	}
	if params.Bio != nil {
		if err := validateBio(*params.Bio); err != nil {
			return nil, err
		}
	}

	var role Role
	if params.Role != nil {
		parsed, err := ParseRole(*params.Role)
		if err != nil {
			return nil, invalidField("role", err.Error())
		}
		role = parsed
	}

	if params.Email != nil && *params.Email != user.Email {
		if existing, err := s.repository.GetByEmail(*params.Email); err == nil && existing.ID != user.ID {
			return nil, ErrUserExists
		}
	}
	if params.Nickname != nil && *params.Nickname != user.Nickname {
		if existing, err := s.repository.GetByNickname(*params.Nickname); err == nil && existing.ID != user.ID {
			return nil, ErrUserExists
		}
	}

	if params.Nickname != nil {
		user.Nickname = *params.Nickname
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Role != nil {
		user.Role = role
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.ProfilePictureURL != nil {
		user.ProfilePictureURL = *params.ProfilePictureURL
	}
	if params.LinkedInProfileURL != nil {
		user.LinkedInProfileURL = *params.LinkedInProfileURL
	}
	if params.GitHubProfileURL != nil {
		user.GitHubProfileURL = *params.GitHubProfileURL
	}

	if err := s.repository.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Delete(id string) (bool, error) {
	return s.repository.Delete(id)
}

// Login authenticates by email. Unknown email, a locked account and a
// wrong password all collapse into ErrInvalidCredentials so the caller
// cannot tell which one occurred. A failed password attempt increments
// the failure counter and locks the account once the configured maximum
// is reached; a locked account rejects without touching the counter.
func (s *Service) Login(email, password string) (*User, error) {
	user, err := s.repository.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.HashPassword("dummy") // Prevent timing attacks
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked {
		s.CheckPasswordHash(password, user.HashedPassword) // Prevent timing attacks
		return nil, ErrInvalidCredentials
	}

	if !s.CheckPasswordHash(password, user.HashedPassword) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= s.config.MaxLoginAttempts {
			user.IsLocked = true
		}

		if err := s.repository.Update(user); err != nil {
			s.log.Error("failed to persist login attempt",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}

		if user.IsLocked {
			s.log.Warn("account locked after repeated login failures",
				zap.String("user_id", user.ID),
				zap.Int("attempts", user.FailedLoginAttempts))
			if err := s.mailer.SendAccountLockedEmail(user.Email, user.Nickname); err != nil {
				s.log.Error("failed to send account locked email",
					zap.String("user_id", user.ID),
					zap.Error(err))
			}
		}

		return nil, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.repository.Update(user); err != nil {
		s.log.Error("failed to persist successful login",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	return user, nil
}

// IsAccountLocked reads the current lock state. An unknown email reads
// as not locked; absence is not lockout.
func (s *Service) IsAccountLocked(email string) (bool, error) {
	user, err := s.repository.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsLocked, nil
}

// UnlockAccount clears the lock and the counter. Reports false when the
// user does not exist.
func (s *Service) UnlockAccount(id string) (bool, error) {
	user, err := s.repository.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	user.UnlockAccount()
	if err := s.repository.Update(user); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword re-hashes and stores a new credential. Reports false when
// the user does not exist.
func (s *Service) ResetPassword(id, newPassword string) (bool, error) {
	user, err := s.repository.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := validatePassword(newPassword); err != nil {
		return false, err
	}

	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return false, err
	}

	user.HashedPassword = hashed
	if err := s.repository.Update(user); err != nil {
		return false, err
	}
	return true, nil
}

// VerifyEmailWithToken succeeds only on an exact token match. A wrong
// token, a missing token or a missing user all report false without an
// error; a caller-supplied mismatch is an expected condition.
func (s *Service) VerifyEmailWithToken(id, token string) (bool, error) {
	user, err := s.repository.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if token == "" || user.VerificationToken != token {
		return false, nil
	}

	user.VerifyEmail()
	if err := s.repository.Update(user); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateProfessionalStatus re-stamps the update time on every call, even
// when the flag value does not change.
func (s *Service) UpdateProfessionalStatus(id string, professional bool) (*User, error) {
	user, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}

	user.UpdateProfessionalStatus(professional)
	if err := s.repository.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
