package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/adapters/intake"
	"github.com/leadengine/lead-engine/internal/di"
	"github.com/leadengine/lead-engine/internal/ports"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
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

// run processes one email from the configured input and prints the result
func run(logger *zap.Logger, emailIntake ports.EmailIntake, flags *di.CLIFlags) error {
	defer logger.Sync()

	cli, ok := emailIntake.(*intake.CLIIntake)
	if !ok {
		return fmt.Errorf("expected CLI intake, got %T", emailIntake)
	}

	return cli.ProcessFile(context.Background(), flags.InputFile)
}
