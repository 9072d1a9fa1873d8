package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/adapters/memory"
	"github.com/leadengine/lead-engine/internal/adapters/postgres"
	"github.com/leadengine/lead-engine/internal/config"
	"github.com/leadengine/lead-engine/internal/core"
)

// StoreFactory creates the backing store based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates a store based on the configuration
func (f *StoreFactory) CreateStore(ctx context.Context) (core.Store, error) {
	storeCfg := f.cfg.GetStore()

	switch storeCfg.Type {
	case "postgres":
		return postgres.NewStore(ctx, storeCfg.PostgresDSN, f.logger)
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
