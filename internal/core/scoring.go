package core

import (
	"fmt"
	"strings"

	"github.com/leadengine/lead-engine/internal/match"
)

// Scoring weights. Source and rule detection are independent competitors;
// the overall confidence is the max of the two best scores, not a blend.
const (
	sourceEmailWeight   = 0.4
	sourceDomainWeight  = 0.3
	sourceSubjectWeight = 0.2
	sourceBodyWeight    = 0.1

	ruleSubjectWeight = 0.3
	ruleBodyWeight    = 0.2
	ruleSenderWeight  = 0.2
	ruleDomainWeight  = 0.2
)

// scoreState accumulates the best source and rule matches for one email,
// appending a human-readable reason each time a new maximum is found.
type scoreState struct {
	bestSource      *LeadSource
	bestSourceScore float64
	bestRule        *DetectionRule
	bestRuleScore   float64
	reasons         []string
}

// scoreSources runs the source scoring pass: first-match email pattern
// bonus, single domain pattern bonus, cumulative keyword bonuses.
func (st *scoreState) scoreSources(sources []LeadSource, from, subject, body string) {
	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)

	for i := range sources {
		src := &sources[i]
		score := 0.0

		for _, p := range src.EmailPatterns {
			if match.Matches(from, p) {
				score += sourceEmailWeight
				break
			}
		}
		if match.MatchesAny(from, src.DomainPatterns) {
			score += sourceDomainWeight
		}
		for _, kw := range src.Keywords {
			kwLower := strings.ToLower(kw)
			if strings.Contains(subjectLower, kwLower) {
				score += sourceSubjectWeight
			}
			if strings.Contains(bodyLower, kwLower) {
				score += sourceBodyWeight
			}
		}

		score = clamp01(score)
		if score > st.bestSourceScore {
			st.bestSourceScore = score
			st.bestSource = src
			st.reasons = append(st.reasons, fmt.Sprintf("Matched lead source: %s", src.Name))
		}
	}
}

// scoreRules runs the rule scoring pass: all bonuses are cumulative, the
// clamped total is zeroed entirely if it falls below the rule's own
// minimum confidence.
func (st *scoreState) scoreRules(rules []DetectionRule, from, subject, body string) {
	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)

	for i := range rules {
		rule := &rules[i]
		score := 0.0

		for _, kw := range rule.Conditions.SubjectKeywords {
			if strings.Contains(subjectLower, strings.ToLower(kw)) {
				score += ruleSubjectWeight
			}
		}
		for _, kw := range rule.Conditions.BodyKeywords {
			if strings.Contains(bodyLower, strings.ToLower(kw)) {
				score += ruleBodyWeight
			}
		}
		for _, p := range rule.Conditions.SenderPatterns {
			if match.Matches(from, p) {
				score += ruleSenderWeight
			}
		}
		for _, p := range rule.Conditions.DomainPatterns {
			if match.Matches(from, p) {
				score += ruleDomainWeight
			}
		}

		score = clamp01(score)

		minConfidence := rule.Conditions.MinConfidence
		if minConfidence == 0 {
			minConfidence = DefaultRuleMinConfidence
		}
		// All-or-nothing gate: a rule below its own threshold contributes
		// zero confidence.
		if score < minConfidence {
			score = 0
		}

		if score > st.bestRuleScore {
			st.bestRuleScore = score
			st.bestRule = rule
			st.reasons = append(st.reasons, fmt.Sprintf("Matched detection rule: %s", rule.Name))
		}
	}
}

// confidence is the final score: the best source and best rule compete.
func (st *scoreState) confidence() float64 {
	if st.bestSourceScore > st.bestRuleScore {
		return st.bestSourceScore
	}
	return st.bestRuleScore
}

// summarize appends the closing reason reporting the percentage score.
func (st *scoreState) summarize() {
	st.reasons = append(st.reasons, fmt.Sprintf("Overall confidence: %.0f%%", st.confidence()*100))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
