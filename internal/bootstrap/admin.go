package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Daffa964/api-edutrash/internal/config"
	"github.com/Daffa964/api-edutrash/internal/service"
)

const defaultAdminUsername = "admin"

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, username, email, password string) (service.UserView, error)
}

// EnsureAdmin seeds an account on startup when ADMIN_EMAIL and ADMIN_PASSWORD are set.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, auth *service.AuthService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, auth, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, auth Registrar, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	email := strings.TrimSpace(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}
	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" {
		username = defaultAdminUsername
	}

	created, err := auth.Register(ctx, username, email, cfg.AdminPassword)
	if errors.Is(err, service.ErrDuplicateEmail) {
		logger.Info("bootstrap admin already present", zap.String("email", strings.ToLower(email)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	logger.Info("bootstrap admin user created",
		zap.String("email", created.Email),
		zap.Int64("user_id", created.ID),
	)
	return nil
}
