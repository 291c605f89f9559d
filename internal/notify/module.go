package notify

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/virell/accountd/internal/config"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger) Sender {
					return NewLogSender(&config.Mail, log)
				},
			),
		),
	)
}
