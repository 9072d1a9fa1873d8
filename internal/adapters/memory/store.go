// Package memory provides an in-memory implementation of the engine's
// store ports, used in tests and by the one-shot CLI.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadengine/lead-engine/internal/core"
)

// Store is an in-memory implementation of core.Store.
type Store struct {
	mu        sync.RWMutex
	sources   []core.LeadSource
	rules     []core.DetectionRule
	persons   map[string]*core.Person
	users     map[string]*core.User
	acts      []*core.Activity
	processed map[string]bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		persons:   make(map[string]*core.Person),
		users:     make(map[string]*core.User),
		processed: make(map[string]bool),
	}
}

// SeedSources adds lead sources to the registry.
func (s *Store) SeedSources(sources ...core.LeadSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, sources...)
}

// SeedRules adds detection rules to the registry.
func (s *Store) SeedRules(rules ...core.DetectionRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rules...)
}

// SeedUser adds a user.
func (s *Store) SeedUser(u core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = &u
}

// ListActiveSources returns active sources ordered by name.
func (s *Store) ListActiveSources(ctx context.Context) ([]core.LeadSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.LeadSource
	for _, src := range s.sources {
		if src.IsActive {
			out = append(out, src)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListActiveRules returns active rules ordered by descending priority.
func (s *Store) ListActiveRules(ctx context.Context) ([]core.DetectionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.DetectionRule
	for _, r := range s.rules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

// FindByEmail returns the first person whose email list contains addr.
func (s *Store) FindByEmail(ctx context.Context, addr string) (*core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.persons {
		for _, e := range p.Email {
			if strings.EqualFold(e, addr) {
				cp := *p
				return &cp, nil
			}
		}
	}
	return nil, nil
}

// FindByName returns up to limit persons matching both names
// case-insensitively, newest first.
func (s *Store) FindByName(ctx context.Context, firstName, lastName string, limit int) ([]*core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.Person
	for _, p := range s.persons {
		if strings.EqualFold(p.FirstName, firstName) && strings.EqualFold(p.LastName, lastName) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreatePerson inserts a new person.
func (s *Store) CreatePerson(ctx context.Context, p *core.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.persons[p.ID] = &cp
	return nil
}

// UpdatePerson persists changes to an existing person.
func (s *Store) UpdatePerson(ctx context.Context, p *core.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = time.Now()
	cp := *p
	s.persons[p.ID] = &cp
	return nil
}

// FindAdmin returns any user with the admin role.
func (s *Store) FindAdmin(ctx context.Context) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Role == "admin" {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateActivity appends an audit row.
func (s *Store) CreateActivity(ctx context.Context, a *core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	cp := *a
	s.acts = append(s.acts, &cp)
	return nil
}

// Activities returns a snapshot of the audit trail.
func (s *Store) Activities() []*core.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Activity, len(s.acts))
	copy(out, s.acts)
	return out
}

// PersonCount reports how many persons exist.
func (s *Store) PersonCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.persons)
}

// MarkProcessed records the email ID and reports whether it was new.
func (s *Store) MarkProcessed(ctx context.Context, emailID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processed[emailID] {
		return false, nil
	}
	s.processed[emailID] = true
	return true, nil
}
