package server

import (
	"go.uber.org/zap"
)

// NewLogger builds the application logger for the given environment.
// Production gets JSON output with sampling, everything else gets the
// human-readable development encoder.
func NewLogger(env string) (*zap.Logger, error) {
	if env == EnvProduction {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
