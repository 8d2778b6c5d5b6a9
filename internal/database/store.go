package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/noah-isme/asap-api/internal/config"
	"github.com/noah-isme/asap-api/internal/models"
)

// Connections holds whichever backends the configured storage driver opened.
type Connections struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// Close releases the open connections.
func (c Connections) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// Ping checks that the opened backend answers.
func (c Connections) Ping(ctx context.Context) error {
	if c.Redis != nil {
		return c.Redis.Ping(ctx).Err()
	}
	if c.DB == nil {
		return fmt.Errorf("no storage backend open")
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Open connects to the backend selected by cfg.StorageDriver and migrates the store schema.
func Open(ctx context.Context, cfg config.Config) (Connections, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return Connections{}, err
		}
		return Connections{Redis: client}, nil
	case config.StoragePostgres:
		db, err := ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return Connections{}, err
		}
		return migrate(db)
	default:
		db, err := ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return Connections{}, err
		}
		return migrate(db)
	}
}

func migrate(db *gorm.DB) (Connections, error) {
	if err := db.AutoMigrate(&models.StoreEntry{}); err != nil {
		return Connections{}, fmt.Errorf("failed to migrate store: %w", err)
	}
	return Connections{DB: db}, nil
}
