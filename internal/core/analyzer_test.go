package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/adapters/memory"
	"github.com/leadengine/lead-engine/internal/core"
)

func newTestStore() *memory.Store {
	store := memory.NewStore()
	store.SeedSources(core.LeadSource{
		ID:             "src-zillow",
		Name:           "Zillow",
		EmailPatterns:  []string{"*@zillow.com"},
		DomainPatterns: []string{"zillow.com"},
		Keywords:       []string{"interested", "property", "listing"},
		IsActive:       true,
	})
	store.SeedRules(core.DetectionRule{
		ID:       "rule-buyer",
		Name:     "Direct buyer inquiry",
		IsActive: true,
		Conditions: core.RuleConditions{
			SubjectKeywords: []string{"buy", "house"},
			BodyKeywords:    []string{"looking for", "budget"},
		},
	})
	store.SeedUser(core.User{ID: "admin-1", Name: "Admin", Role: "admin"})
	return store
}

func newTestAnalyzer(store *memory.Store) *core.Analyzer {
	return core.NewAnalyzer(store, store, nil, zap.NewNop(), false, 0)
}

func TestAnalyzeEmailSourceMatch(t *testing.T) {
	analyzer := newTestAnalyzer(newTestStore())

	email := &core.Email{
		From:    "John Buyer <notifications@zillow.com>",
		Subject: "New contact about your listing",
		Body:    "I am interested in the property at 123 Main Street. Call me at 512-555-1234.",
	}

	result := analyzer.AnalyzeEmail(context.Background(), email)

	require.NotNil(t, result)
	assert.True(t, result.IsLead)
	// email pattern 0.4 + domain 0.3 + subject keyword 0.2 + two body
	// keywords 0.2, clamped to 1.0
	assert.InDelta(t, 1.0, result.ConfidenceScore, 1e-9)
	require.NotNil(t, result.DetectedSource)
	assert.Equal(t, "Zillow", result.DetectedSource.Name)
	assert.Contains(t, result.Reasons, "Matched lead source: Zillow")
	assert.Contains(t, result.Reasons, "Overall confidence: 100%")

	assert.Equal(t, "123 Main Street", result.ExtractedData.PropertyAddress)
	assert.Equal(t, []string{"notifications@zillow.com"}, result.ExtractedData.Email)
	assert.Equal(t, []string{"512-555-1234"}, result.ExtractedData.Phone)
}

func TestAnalyzeEmailRuleMatch(t *testing.T) {
	analyzer := newTestAnalyzer(newTestStore())

	email := &core.Email{
		From:    "jane@gmail.com",
		Subject: "Want to buy a house",
		Body:    "We are looking for a condo, budget is around $400,000.",
	}

	result := analyzer.AnalyzeEmail(context.Background(), email)

	require.NotNil(t, result)
	assert.True(t, result.IsLead)
	// subject 0.3+0.3, body 0.2+0.2, clamped against nothing: 1.0
	assert.InDelta(t, 1.0, result.ConfidenceScore, 1e-9)
	require.NotNil(t, result.DetectedRule)
	assert.Equal(t, "Direct buyer inquiry", result.DetectedRule.Name)
	assert.Contains(t, result.Reasons, "Matched detection rule: Direct buyer inquiry")
}

func TestAnalyzeEmailBelowThreshold(t *testing.T) {
	analyzer := newTestAnalyzer(newTestStore())

	email := &core.Email{
		From:    "friend@gmail.com",
		Subject: "Lunch on Friday",
		Body:    "Usual place at noon?",
	}

	result := analyzer.AnalyzeEmail(context.Background(), email)

	assert.False(t, result.IsLead)
	assert.Equal(t, 0.0, result.ConfidenceScore)
	assert.Nil(t, result.DetectedSource)
	assert.Nil(t, result.DetectedRule)
	assert.Contains(t, result.Reasons, "Overall confidence: 0%")
}

func TestAnalyzeEmailDeterministic(t *testing.T) {
	analyzer := newTestAnalyzer(newTestStore())

	email := &core.Email{
		From:    "notifications@zillow.com",
		Subject: "New listing inquiry",
		Body:    "I am interested in a tour.",
	}

	first := analyzer.AnalyzeEmail(context.Background(), email)
	for i := 0; i < 10; i++ {
		next := analyzer.AnalyzeEmail(context.Background(), email)
		assert.Equal(t, first.ConfidenceScore, next.ConfidenceScore)
		assert.Equal(t, first.IsLead, next.IsLead)
		assert.Equal(t, first.Reasons, next.Reasons)
	}
}

type failingRegistry struct{}

func (failingRegistry) ListActiveSources(context.Context) ([]core.LeadSource, error) {
	return nil, errors.New("connection refused")
}

func (failingRegistry) ListActiveRules(context.Context) ([]core.DetectionRule, error) {
	return nil, errors.New("connection refused")
}

func TestAnalyzeEmailRegistryFailureDegrades(t *testing.T) {
	analyzer := core.NewAnalyzer(failingRegistry{}, failingRegistry{}, nil, zap.NewNop(), false, 0)

	email := &core.Email{
		From:    "notifications@zillow.com",
		Subject: "New listing inquiry",
		Body:    "I am interested in the property.",
	}

	result := analyzer.AnalyzeEmail(context.Background(), email)

	require.NotNil(t, result)
	assert.False(t, result.IsLead)
	assert.Equal(t, 0.0, result.ConfidenceScore)
	// Extraction still runs even when the registry is unreachable.
	assert.NotEmpty(t, result.ExtractedData.Email)
}

func TestAnalyzeEmailThresholdBoundary(t *testing.T) {
	store := memory.NewStore()
	// Three subject keywords score exactly 0.6, the lead threshold.
	store.SeedSources(core.LeadSource{
		ID:             "src",
		Name:           "Boundary",
		DomainPatterns: []string{"example.com"},
		Keywords:       []string{"alpha", "beta", "gamma"},
		IsActive:       true,
	})
	analyzer := newTestAnalyzer(store)

	below := analyzer.AnalyzeEmail(context.Background(), &core.Email{
		From:    "x@example.com",
		Subject: "alpha beta",
		Body:    "nothing else",
	})
	assert.InDelta(t, 0.7, below.ConfidenceScore, 1e-9)
	assert.True(t, below.IsLead)

	exact := analyzer.AnalyzeEmail(context.Background(), &core.Email{
		From:    "unrelated@nowhere.org",
		Subject: "alpha beta gamma",
		Body:    "no keywords",
	})
	assert.InDelta(t, 0.6, exact.ConfidenceScore, 1e-9)
	assert.True(t, exact.IsLead, "score equal to the threshold counts as a lead")

	under := analyzer.AnalyzeEmail(context.Background(), &core.Email{
		From:    "unrelated@nowhere.org",
		Subject: "alpha beta",
		Body:    "no keywords",
	})
	assert.InDelta(t, 0.4, under.ConfidenceScore, 1e-9)
	assert.False(t, under.IsLead)
}
