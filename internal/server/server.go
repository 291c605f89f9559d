package server

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/virell/accountd/internal/config"
	"github.com/virell/accountd/internal/user"
)

type Server struct {
	config     *config.AppConfig
	log        *zap.Logger
	httpServer *http.Server
}

type Params struct {
	fx.In

	Config         *config.AppConfig
	Logger         *zap.Logger
	UserHandler    *user.Handler
	AuthMiddleware *user.AuthMiddleware
}

func NewServer(p Params) *Server {
	if os.Getenv("APP_ENV") == EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(p.Logger))

	if len(p.Config.HTTP.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = p.Config.HTTP.AllowedOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		engine.Use(cors.New(corsConfig))
	}

	p.UserHandler.RegisterRoutes(engine, p.AuthMiddleware)

	addr := fmt.Sprintf("%s:%s", p.Config.Server.Host, p.Config.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  p.Config.HTTP.ReadTimeout,
		WriteTimeout: p.Config.HTTP.WriteTimeout,
	}

	return &Server{
		config:     p.Config,
		log:        p.Logger,
		httpServer: httpServer,
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddInt("max_login_attempts", config.Auth.MaxLoginAttempts)
		enc.AddDuration("read_timeout", config.HTTP.ReadTimeout)
		enc.AddDuration("write_timeout", config.HTTP.WriteTimeout)
		return nil
	})
}

func (s *Server) Stop() {
	s.log.Info("shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("graceful shutdown failed", zap.Error(err))
	}
}
