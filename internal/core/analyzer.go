package core

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/extract"
)

// Cache keys for registry snapshots.
const (
	cacheKeySources = "registry:sources"
	cacheKeyRules   = "registry:rules"
)

// Analyzer orchestrates pattern matching, registry lookups, scoring, and
// field extraction into one EmailAnalysisResult per email.
type Analyzer struct {
	sources      LeadSourceRepository
	rules        DetectionRuleRepository
	cache        RegistryCache
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewAnalyzer creates a new email analyzer.
func NewAnalyzer(
	sources LeadSourceRepository,
	rules DetectionRuleRepository,
	cache RegistryCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *Analyzer {
	return &Analyzer{
		sources:      sources,
		rules:        rules,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

// AnalyzeEmail decides whether an email represents a lead. It never returns
// an error: registry failures degrade to "no lead" and internal panics are
// absorbed into the safe zero result.
func (a *Analyzer) AnalyzeEmail(ctx context.Context, email *Email) (result *EmailAnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Analysis panicked", zap.Any("panic", r), zap.String("sender", email.From))
			result = &EmailAnalysisResult{
				Reasons: []string{"Error during analysis"},
			}
		}
	}()

	sources, rules := a.fetchRegistry(ctx)

	st := &scoreState{}
	st.scoreSources(sources, email.From, email.Subject, email.Body)
	st.scoreRules(rules, email.From, email.Subject, email.Body)
	st.summarize()

	score := st.confidence()
	result = &EmailAnalysisResult{
		IsLead:          score >= LeadThreshold,
		ConfidenceScore: score,
		DetectedSource:  st.bestSource,
		DetectedRule:    st.bestRule,
		ExtractedData:   a.extractFields(email),
		Reasons:         st.reasons,
	}

	a.logger.Debug("Analyzed email",
		zap.String("sender", email.From),
		zap.Bool("is_lead", result.IsLead),
		zap.Float64("confidence", result.ConfidenceScore))

	return result
}

// fetchRegistry loads active sources and rules concurrently. Either side
// failing yields an empty list so detection degrades instead of crashing.
func (a *Analyzer) fetchRegistry(ctx context.Context) ([]LeadSource, []DetectionRule) {
	var (
		wg      sync.WaitGroup
		sources []LeadSource
		rules   []DetectionRule
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sources = a.loadSources(ctx)
	}()
	go func() {
		defer wg.Done()
		rules = a.loadRules(ctx)
	}()
	wg.Wait()

	return sources, rules
}

func (a *Analyzer) loadSources(ctx context.Context) []LeadSource {
	if a.cacheEnabled {
		if payload, err := a.cache.Get(ctx, cacheKeySources); err == nil {
			var cached []LeadSource
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached
			}
		}
	}

	sources, err := a.sources.ListActiveSources(ctx)
	if err != nil {
		a.logger.Warn("Failed to load lead sources", zap.Error(err))
		return nil
	}

	if a.cacheEnabled {
		if payload, err := json.Marshal(sources); err == nil {
			if err := a.cache.Set(ctx, cacheKeySources, payload, a.cacheTTL); err != nil {
				a.logger.Error("Failed to cache lead sources", zap.Error(err))
			}
		}
	}
	return sources
}

func (a *Analyzer) loadRules(ctx context.Context) []DetectionRule {
	if a.cacheEnabled {
		if payload, err := a.cache.Get(ctx, cacheKeyRules); err == nil {
			var cached []DetectionRule
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached
			}
		}
	}

	rules, err := a.rules.ListActiveRules(ctx)
	if err != nil {
		a.logger.Warn("Failed to load detection rules", zap.Error(err))
		return nil
	}

	if a.cacheEnabled {
		if payload, err := json.Marshal(rules); err == nil {
			if err := a.cache.Set(ctx, cacheKeyRules, payload, a.cacheTTL); err != nil {
				a.logger.Error("Failed to cache detection rules", zap.Error(err))
			}
		}
	}
	return rules
}

// extractFields runs the extractor suite over the email.
func (a *Analyzer) extractFields(email *Email) ExtractedData {
	combined := email.Subject + " " + email.Body

	return ExtractedData{
		Name:            extract.Name(email.From, email.Body),
		Email:           extract.Emails(email.From, email.Body),
		Phone:           extract.Phones(email.Body),
		Company:         extract.Company(email.Body),
		Position:        extract.Position(email.Body),
		Message:         truncate(email.Body, 1000),
		PropertyAddress: extract.PropertyAddress(combined),
		PropertyDetails: extract.PropertyDetails(combined),
	}
}

// truncate limits s to max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut
}
