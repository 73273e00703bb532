package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/damedesign/portfolio/config"
	"github.com/damedesign/portfolio/internal/bootstrap"
	"github.com/damedesign/portfolio/internal/data"
	"github.com/damedesign/portfolio/internal/ports"
)

var errRedisNotConfigured = errors.New("redis not configured")

// contentCacheKeys lists every cached public collection.
var contentCacheKeys = []string{
	ports.CacheKeyProjects,
	ports.CacheKeyFAQ,
	ports.CacheKeyTestimonials,
	ports.CacheKeyLogos,
	ports.CacheKeyAbout,
}

func cacheCmd(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the Redis content cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Drop every cached content list so the next request reads the database",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
				if err := data.NewRedisCacheRepo(client).Invalidate(ctx, contentCacheKeys...); err != nil {
					return fmt.Errorf("flush content cache: %w", err)
				}
				return writef(cmdCtx.Out, "Flushed %d content cache keys\n", len(contentCacheKeys))
			})
		},
	})
	return cmd
}

func withRedis(cmdCtx *commandContext, f func(context.Context, redis.UniversalClient) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, adminCommandTimeout)
	defer cancel()

	client, err := maybeConnectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()
	return f(ctx, client)
}

// maybeConnectRedis returns a connected client when configuration is present.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func maybeConnectRedis(logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if !hasRedisConfig(cfg) {
		return nil, errRedisNotConfigured
	}
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: *cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}

