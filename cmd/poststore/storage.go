package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gouniverse/poststore"
	"github.com/gouniverse/poststore/internal/config"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func noopClose() error { return nil }

// openStorage builds the durable slot backend selected by cfg.Storage.
// The returned close func releases connections held by the backend.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (poststore.StorageInterface, func() error, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return poststore.NewMemoryStorage(), noopClose, nil

	case config.StorageFile:
		storage, err := poststore.NewFileStorage(poststore.FileStorageOptions{Directory: cfg.FileDir})
		if err != nil {
			return nil, nil, err
		}
		return storage, noopClose, nil

	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLiteDSN), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		db, err := sql.Open("sqlite", cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}

		if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}

		storage, err := poststore.NewSQLStorage(poststore.SQLStorageOptions{
			TableName:          cfg.SQLTable,
			DB:                 db,
			AutomigrateEnabled: true,
			DebugEnabled:       cfg.Debug,
			Logger:             logger,
		})
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return storage, db.Close, nil

	case config.StorageRedis:
		client, err := poststore.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url %q: %w", cfg.RedisURL, err)
		}

		if ctx == nil {
			ctx = context.Background()
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Debug("redis connected", zap.String("addr", client.Options().Addr))

		storage, err := poststore.NewRedisStorage(poststore.RedisStorageOptions{
			Client:    client,
			KeyPrefix: cfg.RedisPrefix,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return storage, client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
