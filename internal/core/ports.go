package core

import (
	"context"
	"time"
)

// LeadSourceRepository provides read access to configured lead sources.
type LeadSourceRepository interface {
	// ListActiveSources returns active sources ordered by name.
	ListActiveSources(ctx context.Context) ([]LeadSource, error)
}

// DetectionRuleRepository provides read access to configured detection rules.
type DetectionRuleRepository interface {
	// ListActiveRules returns active rules ordered by descending priority.
	ListActiveRules(ctx context.Context) ([]DetectionRule, error)
}

// PersonRepository provides the person rows the dedup ladder reads and the
// engine writes. Persons are never deleted through this interface.
type PersonRepository interface {
	// FindByEmail returns the first person whose email list contains addr,
	// or nil when none exists.
	FindByEmail(ctx context.Context, addr string) (*Person, error)

	// FindByName returns up to limit persons whose first and last names
	// case-insensitively equal the given names, newest first.
	FindByName(ctx context.Context, firstName, lastName string, limit int) ([]*Person, error)

	// CreatePerson inserts a new person and fills in its ID.
	CreatePerson(ctx context.Context, p *Person) error

	// UpdatePerson persists changes to an existing person.
	UpdatePerson(ctx context.Context, p *Person) error
}

// UserRepository resolves the admin user that newly staged leads are
// assigned to.
type UserRepository interface {
	// FindAdmin returns any user with the admin role, or nil when none exists.
	FindAdmin(ctx context.Context) (*User, error)
}

// ActivityRepository records the audit trail. Writes are best-effort; the
// ingestion orchestrator logs failures but never fails the operation on them.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, a *Activity) error
}

// ProcessedEmailRepository marks emails as processed exactly once so that
// re-delivery of the same email ID is a no-op at the intake layer.
type ProcessedEmailRepository interface {
	// MarkProcessed records the email ID and reports whether it was new.
	MarkProcessed(ctx context.Context, emailID string) (bool, error)
}

// Store bundles every repository the engine needs, letting one adapter back
// them all.
type Store interface {
	LeadSourceRepository
	DetectionRuleRepository
	PersonRepository
	UserRepository
	ActivityRepository
	ProcessedEmailRepository
}

// RegistryCache caches serialized registry snapshots between analyses.
type RegistryCache interface {
	// Get retrieves a cached payload, or an error when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload under key for ttl.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Delete removes a cached payload.
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired payloads.
	Cleanup(ctx context.Context) error
}
