// Package postgres provides the Postgres-backed implementation of the
// engine's store ports using pgx connection pooling. The schema is ensured
// at startup so a fresh database works out of the box.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/core"
)

// Store is a Postgres implementation of core.Store.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStore connects to Postgres and ensures the schema exists.
func NewStore(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{pool: pool, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("Postgres store initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS lead_sources (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			description     TEXT DEFAULT '',
			email_patterns  TEXT[] NOT NULL DEFAULT '{}',
			domain_patterns TEXT[] NOT NULL DEFAULT '{}',
			keywords        TEXT[] NOT NULL DEFAULT '{}',
			is_default      BOOLEAN NOT NULL DEFAULT FALSE,
			is_active       BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE TABLE IF NOT EXISTS lead_detection_rules (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			is_active        BOOLEAN NOT NULL DEFAULT TRUE,
			priority         DOUBLE PRECISION NOT NULL DEFAULT 0,
			subject_keywords TEXT[] NOT NULL DEFAULT '{}',
			body_keywords    TEXT[] NOT NULL DEFAULT '{}',
			sender_patterns  TEXT[] NOT NULL DEFAULT '{}',
			domain_patterns  TEXT[] NOT NULL DEFAULT '{}',
			min_confidence   DOUBLE PRECISION NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS users (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			role  TEXT NOT NULL DEFAULT 'agent'
		);
		CREATE TABLE IF NOT EXISTS persons (
			id               TEXT PRIMARY KEY,
			first_name       TEXT NOT NULL,
			last_name        TEXT NOT NULL,
			email            TEXT[] NOT NULL DEFAULT '{}',
			phone            TEXT[] NOT NULL DEFAULT '{}',
			lead_source      TEXT NOT NULL DEFAULT '',
			lead_source_id   TEXT NOT NULL DEFAULT '',
			lead_status      TEXT NOT NULL DEFAULT '',
			client_type      TEXT NOT NULL DEFAULT '',
			assigned_to      TEXT NOT NULL DEFAULT '',
			notes            TEXT NOT NULL DEFAULT '',
			company          TEXT NOT NULL DEFAULT '',
			position         TEXT NOT NULL DEFAULT '',
			address          TEXT NOT NULL DEFAULT '',
			looking_for      TEXT NOT NULL DEFAULT '',
			last_interaction TIMESTAMPTZ,
			next_follow_up   TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_persons_email ON persons USING GIN(email);
		CREATE INDEX IF NOT EXISTS idx_persons_name ON persons(LOWER(first_name), LOWER(last_name));
		CREATE TABLE IF NOT EXISTS activities (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			person_id   TEXT NOT NULL,
			created_by  TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS processed_emails (
			email_id     TEXT PRIMARY KEY,
			processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// ListActiveSources returns active sources ordered by name.
func (s *Store) ListActiveSources(ctx context.Context) ([]core.LeadSource, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, email_patterns, domain_patterns,
		       keywords, is_default, is_active
		FROM lead_sources
		WHERE is_active
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query lead sources: %w", err)
	}
	defer rows.Close()

	var out []core.LeadSource
	for rows.Next() {
		var src core.LeadSource
		if err := rows.Scan(&src.ID, &src.Name, &src.Description, &src.EmailPatterns,
			&src.DomainPatterns, &src.Keywords, &src.IsDefault, &src.IsActive); err != nil {
			return nil, fmt.Errorf("scan lead source: %w", err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// ListActiveRules returns active rules ordered by descending priority.
func (s *Store) ListActiveRules(ctx context.Context) ([]core.DetectionRule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, is_active, priority, subject_keywords, body_keywords,
		       sender_patterns, domain_patterns, min_confidence
		FROM lead_detection_rules
		WHERE is_active
		ORDER BY priority DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query detection rules: %w", err)
	}
	defer rows.Close()

	var out []core.DetectionRule
	for rows.Next() {
		var r core.DetectionRule
		if err := rows.Scan(&r.ID, &r.Name, &r.IsActive, &r.Priority,
			&r.Conditions.SubjectKeywords, &r.Conditions.BodyKeywords,
			&r.Conditions.SenderPatterns, &r.Conditions.DomainPatterns,
			&r.Conditions.MinConfidence); err != nil {
			return nil, fmt.Errorf("scan detection rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindByEmail returns the first person whose email array contains addr.
func (s *Store) FindByEmail(ctx context.Context, addr string) (*core.Person, error) {
	row := s.pool.QueryRow(ctx, personSelect+`
		WHERE EXISTS (
			SELECT 1 FROM UNNEST(email) AS e WHERE LOWER(e) = LOWER($1)
		)
		ORDER BY created_at DESC
		LIMIT 1
	`, addr)

	p, err := scanPerson(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// FindByName returns up to limit persons matching both names
// case-insensitively, newest first.
func (s *Store) FindByName(ctx context.Context, firstName, lastName string, limit int) ([]*core.Person, error) {
	rows, err := s.pool.Query(ctx, personSelect+`
		WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2)
		ORDER BY created_at DESC
		LIMIT $3
	`, firstName, lastName, limit)
	if err != nil {
		return nil, fmt.Errorf("query persons by name: %w", err)
	}
	defer rows.Close()

	var out []*core.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const personSelect = `
	SELECT id, first_name, last_name, email, phone, lead_source,
	       lead_source_id, lead_status, client_type, assigned_to, notes,
	       company, position, address, looking_for, last_interaction,
	       next_follow_up, created_at, updated_at
	FROM persons
`

func scanPerson(row pgx.Row) (*core.Person, error) {
	var p core.Person
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.LeadSource, &p.LeadSourceID, &p.LeadStatus, &p.ClientType,
		&p.AssignedTo, &p.Notes, &p.Company, &p.Position, &p.Address,
		&p.LookingFor, &p.LastInteraction, &p.NextFollowUp,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan person: %w", err)
	}
	return &p, nil
}

// CreatePerson inserts a new person and fills in its ID.
func (s *Store) CreatePerson(ctx context.Context, p *core.Person) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO persons
			(id, first_name, last_name, email, phone, lead_source,
			 lead_source_id, lead_status, client_type, assigned_to, notes,
			 company, position, address, looking_for, last_interaction,
			 next_follow_up, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19)
	`, p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.LeadSource,
		p.LeadSourceID, p.LeadStatus, p.ClientType, p.AssignedTo, p.Notes,
		p.Company, p.Position, p.Address, p.LookingFor, p.LastInteraction,
		p.NextFollowUp, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// UpdatePerson persists changes to an existing person.
func (s *Store) UpdatePerson(ctx context.Context, p *core.Person) error {
	p.UpdatedAt = time.Now()

	_, err := s.pool.Exec(ctx, `
		UPDATE persons SET
			first_name = $2, last_name = $3, email = $4, phone = $5,
			lead_source = $6, lead_source_id = $7, lead_status = $8,
			client_type = $9, assigned_to = $10, notes = $11, company = $12,
			position = $13, address = $14, looking_for = $15,
			last_interaction = $16, next_follow_up = $17, updated_at = $18
		WHERE id = $1
	`, p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.LeadSource,
		p.LeadSourceID, p.LeadStatus, p.ClientType, p.AssignedTo, p.Notes,
		p.Company, p.Position, p.Address, p.LookingFor, p.LastInteraction,
		p.NextFollowUp, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// FindAdmin returns any user with the admin role, or nil when none exists.
func (s *Store) FindAdmin(ctx context.Context) (*core.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, role
		FROM users
		WHERE role = 'admin'
		LIMIT 1
	`)

	var u core.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query admin user: %w", err)
	}
	return &u, nil
}

// CreateActivity appends an audit row.
func (s *Store) CreateActivity(ctx context.Context, a *core.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO activities (id, type, description, person_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.Type, a.Description, a.PersonID, a.CreatedBy, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// MarkProcessed records the email ID once and reports whether it was new.
// The primary key is the concurrency boundary: concurrent deliveries of the
// same ID resolve to a single winner.
func (s *Store) MarkProcessed(ctx context.Context, emailID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO processed_emails (email_id)
		VALUES ($1)
		ON CONFLICT (email_id) DO NOTHING
	`, emailID)
	if err != nil {
		return false, fmt.Errorf("mark email processed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
