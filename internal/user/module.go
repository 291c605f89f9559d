package user

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/virell/accountd/internal/config"
	"github.com/virell/accountd/internal/database"
	"github.com/virell/accountd/internal/notify"
)

// NewModule returns the user module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			// Provide repository
			fx.Annotate(
				func(manager *database.Manager) Repository {
					return NewRepository(manager.DB())
				},
			),
			// Provide service
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger, repo Repository, mailer notify.Sender) *Service {
					return NewService(&config.Auth, log, repo, mailer)
				},
			),
			// Provide handler
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Handler {
					return NewHandler(svc, log)
				},
			),
			// Provide middleware
			fx.Annotate(
				func(config *config.AppConfig) *AuthMiddleware {
					return NewAuthMiddleware(&config.Auth)
				},
			),
		),
	)
}
