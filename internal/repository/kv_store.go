package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/asap-api/internal/models"
)

// ErrKeyNotFound indicates no value is stored under the requested key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore persists raw JSON documents under string keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type gormKeyValueStore struct {
	db *gorm.DB
}

// NewGormKeyValueStore constructs a key-value store backed by the store_entries table.
func NewGormKeyValueStore(db *gorm.DB) KeyValueStore {
	return &gormKeyValueStore{db: db}
}

func (s *gormKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.StoreEntry
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read store entry %s: %w", key, err)
	}

	return []byte(entry.Value), nil
}

func (s *gormKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	entry := models.StoreEntry{Key: key, Value: datatypes.JSON(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write store entry %s: %w", key, err)
	}

	return nil
}

func (s *gormKeyValueStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&models.StoreEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete store entry %s: %w", key, err)
	}

	return nil
}

type redisKeyValueStore struct {
	client *redis.Client
	prefix string
}

// NewRedisKeyValueStore constructs a key-value store on redis. Keys are namespaced with prefix.
func NewRedisKeyValueStore(client *redis.Client, prefix string) KeyValueStore {
	return &redisKeyValueStore{client: client, prefix: prefix}
}

func (s *redisKeyValueStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *redisKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read redis key %s: %w", key, err)
	}

	return value, nil
}

func (s *redisKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("write redis key %s: %w", key, err)
	}

	return nil
}

func (s *redisKeyValueStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete redis key %s: %w", key, err)
	}

	return nil
}
