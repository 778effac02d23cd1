package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"github.com/wardbooklabs/wardbook/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a redis client when one is configured, nil otherwise.
// Consumers treat a nil client as "feature disabled".
var Module = fx.Module("redis",
	fx.Provide(New),
)

func New(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *goredis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return err
			}
			log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}
