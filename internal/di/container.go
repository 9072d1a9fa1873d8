package di

import (
	"context"
	"time"

	"go.uber.org/dig"

	"github.com/leadengine/lead-engine/internal/config"
	"github.com/leadengine/lead-engine/internal/core"
	"github.com/leadengine/lead-engine/internal/factory"
	"github.com/leadengine/lead-engine/internal/logging"
	"github.com/leadengine/lead-engine/internal/ports"
	"github.com/leadengine/lead-engine/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register store
	if err := container.Provide(func(f *factory.StoreFactory) (core.Store, error) {
		return f.CreateStore(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register repository views of the store
	if err := container.Provide(func(s core.Store) core.LeadSourceRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.DetectionRuleRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.PersonRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.UserRepository { return s }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s core.Store) core.ActivityRepository { return s }); err != nil {
		return nil, err
	}

	// Register registry cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.RegistryCache, error) {
		return f.CreateRegistryCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register core services
	if err := container.Provide(core.NewAnalyzer); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewLeadExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewIngestor); err != nil {
		return nil, err
	}

	// Register email intake
	if err := container.Provide(func(f *factory.IntakeFactory) (ports.EmailIntake, error) {
		return f.CreateEmailIntake()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
