package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/asap-api/pkg/ai"
)

// ConfigKey is the fixed key holding the saved evaluation configuration.
const ConfigKey = "asap-ai-config"

// ConfigRepository persists the working evaluation configuration.
type ConfigRepository interface {
	// Load returns the stored configuration and whether one was found.
	Load(ctx context.Context) (ai.EvaluationConfig, bool, error)
	Save(ctx context.Context, cfg ai.EvaluationConfig) error
	Clear(ctx context.Context) error
}

type configRepository struct {
	store KeyValueStore
}

// NewConfigRepository constructs the local configuration store.
func NewConfigRepository(store KeyValueStore) ConfigRepository {
	return &configRepository{store: store}
}

func (r *configRepository) Load(ctx context.Context) (ai.EvaluationConfig, bool, error) {
	raw, err := r.store.Get(ctx, ConfigKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return ai.EvaluationConfig{}, false, nil
		}
		return ai.EvaluationConfig{}, false, err
	}

	var cfg ai.EvaluationConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return ai.EvaluationConfig{}, false, fmt.Errorf("decode saved config: %w", err)
	}

	return cfg, true, nil
}

func (r *configRepository) Save(ctx context.Context, cfg ai.EvaluationConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return r.store.Set(ctx, ConfigKey, payload)
}

func (r *configRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, ConfigKey)
}
