package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/hawkstone-global/hawkstone_backend/config"
	"github.com/hawkstone-global/hawkstone_backend/pkg/email"
	"github.com/hawkstone-global/hawkstone_backend/pkg/observability"
	redispkg "github.com/hawkstone-global/hawkstone_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideOTel),
)

// ProvideRedis returns a nil client when no address is configured; consumers
// treat Redis as optional.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(context.Background(), cfg.Redis)
	if errors.Is(err, redispkg.ErrNoAddr) {
		slog.Info("redis not configured, rate limiter uses in-memory storage")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	client, err := email.NewFromCentral(cfg.Email)
	if err != nil {
		return nil, err
	}
	if !client.Configured() {
		// Not fatal: the relay answers 500 per request until credentials are set.
		slog.Warn("email credentials not set; form submissions will fail",
			"env", "EMAIL_USER/EMAIL_APP_PASSWORD")
	}
	return client, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
