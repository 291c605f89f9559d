package user

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/virell/accountd/internal/config"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:        "test-secret-key",
		TokenExpiration:  time.Hour,
		MaxLoginAttempts: 5,
	}
}

type mockMailer struct {
	mu            sync.Mutex
	verifications []string
	lockNotices   []string
}

func newMockMailer() *mockMailer {
	return &mockMailer{}
}

func (m *mockMailer) SendVerificationEmail(email, nickname, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, email)
	return nil
}

func (m *mockMailer) SendAccountLockedEmail(email, nickname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockNotices = append(m.lockNotices, email)
	return nil
}

func newTestService(t *testing.T) *Service {
	return NewService(
		newTestConfig(),
		newTestLogger(t),
		newMockRepository(),
		newMockMailer(),
	)
}

func newTestServiceWithRepo(t *testing.T, repo Repository) *Service {
	return NewService(
		newTestConfig(),
		newTestLogger(t),
		repo,
		newMockMailer(),
	)
}

// createTestUser creates a user through the service so the password is
// properly hashed and a verification token exists.
func createTestUser(t *testing.T, svc *Service, nickname, email string) *User {
	t.Helper()
	user, err := svc.Create(CreateParams{
		Nickname: nickname,
		Email:    email,
		Password: "MySuperPassword1234",
	})
	assert.NoError(t, err)
	return user
}
