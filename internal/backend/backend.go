// Package backend resolves the live client handles exactly once per
// process. When configuration points at a real backend the database,
// optional Redis cache, and blob bucket are initialized here; any failure
// is logged and the handle set degrades to demo mode instead of raising.
package backend

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cadetops/corpshq/internal/config"
	"github.com/cadetops/corpshq/pkg/db"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const redisPingTimeout = 2 * time.Second

// Handles carries the process-wide backend clients. They are initialized
// once and treated as read-only thereafter. Demo reports whether the
// process runs self-contained, either by configuration or because live
// initialization failed.
type Handles struct {
	DB        *gorm.DB
	Redis     *redis.Client
	BucketDir string
	Demo      bool
}

// Resolve builds the handle set. There is no retry: a backend that is
// unreachable at startup stays unreachable for the life of the process.
func Resolve(cfg config.Config, log *zap.Logger) *Handles {
	log = log.Named("backend")

	if cfg.DemoMode() {
		log.Info("running in demo mode, no live backend configured")
		return &Handles{Demo: true}
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Error("live database initialization failed, falling back to demo mode", zap.Error(err))
		return &Handles{Demo: true}
	}

	bucket := filepath.Join(cfg.DataDir, cfg.StorageBucket)
	if err := os.MkdirAll(bucket, 0o755); err != nil {
		log.Error("blob bucket initialization failed, falling back to demo mode", zap.Error(err))
		return &Handles{Demo: true}
	}

	h := &Handles{DB: conn, BucketDir: bucket}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			// The session cache is optional; live mode continues without it.
			log.Warn("redis unavailable, sessions served from database only", zap.Error(err))
		} else {
			h.Redis = client
		}
	}

	log.Info("live backend initialized",
		zap.String("project_id", cfg.ProjectID),
		zap.String("bucket", bucket),
		zap.Bool("redis", h.Redis != nil),
	)
	return h
}
