package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/core"
	"github.com/leadengine/lead-engine/internal/di"
	"github.com/leadengine/lead-engine/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	emailIntake ports.EmailIntake,
	store core.Store,
	cache core.RegistryCache,
) error {
	defer logger.Sync()

	// Start the intake
	if err := emailIntake.Start(); err != nil {
		logger.Fatal("Failed to start email intake", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the intake
	if err := emailIntake.Stop(); err != nil {
		logger.Error("Failed to stop email intake", zap.Error(err))
	}

	// Stop the cache if needed
	if stopper, ok := cache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	// Close the store if needed
	if closer, ok := store.(interface{ Close() }); ok {
		closer.Close()
	}

	logger.Info("Shutdown complete")
	return nil
}
