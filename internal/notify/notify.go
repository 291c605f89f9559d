package notify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/virell/accountd/internal/config"
)

// Sender delivers account mail. Delivery is fire-and-forget from the
// caller's point of view: a failed send never rolls back the user
// mutation that triggered it.
type Sender interface {
	SendVerificationEmail(email, nickname, token string) error
	SendAccountLockedEmail(email, nickname string) error
}

// logSender records outgoing mail instead of delivering it. It stands in
// for a real mail relay in development and test environments.
type logSender struct {
	config *config.MailConfig
	log    *zap.Logger
}

func NewLogSender(config *config.MailConfig, log *zap.Logger) Sender {
	return &logSender{config: config, log: log}
}

func (s *logSender) SendVerificationEmail(email, nickname, token string) error {
	link := fmt.Sprintf("%s/users/verify-email?token=%s", s.config.BaseURL, token)
	s.log.Info("sending verification email",
		zap.String("from", s.config.FromAddress),
		zap.String("to", email),
		zap.String("nickname", nickname),
		zap.String("link", link),
	)
	return nil
}

func (s *logSender) SendAccountLockedEmail(email, nickname string) error {
	s.log.Info("sending account locked email",
		zap.String("from", s.config.FromAddress),
		zap.String("to", email),
		zap.String("nickname", nickname),
	)
	return nil
}
