package ports

import (
	"context"

	"github.com/leadengine/lead-engine/internal/core"
)

// EmailIntake defines the interface for inbound email surfaces that feed
// the lead pipeline.
type EmailIntake interface {
	// ProcessEmail runs one email through the lead pipeline.
	ProcessEmail(ctx context.Context, email *core.Email) *core.IngestResult

	// Start starts the intake surface.
	Start() error

	// Stop stops the intake surface.
	Stop() error
}
