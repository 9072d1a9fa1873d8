package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSources(t *testing.T) {
	source := LeadSource{
		ID:             "src-1",
		Name:           "Zillow",
		EmailPatterns:  []string{"*@zillow.com", "noreply@zillow.com"},
		DomainPatterns: []string{"zillow.com", "zillowhomes.com"},
		Keywords:       []string{"interested", "tour"},
		IsActive:       true,
	}

	tests := []struct {
		name    string
		from    string
		subject string
		body    string
		want    float64
	}{
		{
			name: "email pattern scores once despite multiple matches",
			from: "noreply@zillow.com",
			want: 0.4 + 0.3, // domain patterns also hit the same sender
		},
		{
			name: "domain pattern alone",
			from: "agent via zillow.com relay",
			want: 0.3,
		},
		{
			name:    "subject keyword",
			from:    "friend@gmail.com",
			subject: "Very interested in the listing",
			want:    0.2,
		},
		{
			name: "body keyword",
			from: "friend@gmail.com",
			body: "I would love a tour this weekend",
			want: 0.1,
		},
		{
			name:    "keywords accumulate across subject and body",
			from:    "friend@gmail.com",
			subject: "interested in a tour",
			body:    "still interested, can we tour it",
			want:    0.2 + 0.2 + 0.1 + 0.1,
		},
		{
			name: "no signals",
			from: "friend@gmail.com",
			body: "lunch on friday?",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &scoreState{}
			st.scoreSources([]LeadSource{source}, tt.from, tt.subject, tt.body)
			assert.InDelta(t, tt.want, st.bestSourceScore, 1e-9)
		})
	}
}

func TestScoreSourcesClamped(t *testing.T) {
	source := LeadSource{
		Name:           "Everything",
		EmailPatterns:  []string{"*@zillow.com"},
		DomainPatterns: []string{"zillow.com"},
		Keywords:       []string{"interested", "tour", "listing", "viewing"},
		IsActive:       true,
	}

	st := &scoreState{}
	st.scoreSources([]LeadSource{source},
		"buyer@zillow.com",
		"interested in a tour of the listing, viewing asap",
		"interested interested tour listing viewing")

	assert.Equal(t, 1.0, st.bestSourceScore)
}

func TestScoreSourcesBestWinsAndReasons(t *testing.T) {
	weak := LeadSource{Name: "Weak", Keywords: []string{"interested"}}
	strong := LeadSource{Name: "Strong", DomainPatterns: []string{"zillow.com"}}

	st := &scoreState{}
	st.scoreSources([]LeadSource{weak, strong}, "a@zillow.com", "", "interested")

	assert.Equal(t, "Strong", st.bestSource.Name)
	assert.InDelta(t, 0.3, st.bestSourceScore, 1e-9)
	assert.Equal(t, []string{
		"Matched lead source: Weak",
		"Matched lead source: Strong",
	}, st.reasons)
}

func TestScoreRules(t *testing.T) {
	rule := DetectionRule{
		Name:     "Buyer inquiry",
		IsActive: true,
		Conditions: RuleConditions{
			SubjectKeywords: []string{"buy"},
			BodyKeywords:    []string{"house"},
			SenderPatterns:  []string{"*@gmail.com"},
			DomainPatterns:  []string{"gmail.com"},
		},
	}

	t.Run("all conditions accumulate", func(t *testing.T) {
		st := &scoreState{}
		st.scoreRules([]DetectionRule{rule}, "buyer@gmail.com", "Want to buy", "a house downtown")
		assert.InDelta(t, 0.3+0.2+0.2+0.2, st.bestRuleScore, 1e-9)
	})

	t.Run("score below min confidence is zeroed entirely", func(t *testing.T) {
		st := &scoreState{}
		st.scoreRules([]DetectionRule{rule}, "buyer@yahoo.com", "Want to buy", "")
		assert.Equal(t, 0.0, st.bestRuleScore)
		assert.Nil(t, st.bestRule)
	})

	t.Run("explicit min confidence is honored", func(t *testing.T) {
		strict := rule
		strict.Conditions.MinConfidence = 0.8
		st := &scoreState{}
		st.scoreRules([]DetectionRule{strict}, "buyer@gmail.com", "Want to buy", "")
		// 0.3 + 0.2 + 0.2 = 0.7, below 0.8
		assert.Equal(t, 0.0, st.bestRuleScore)
	})
}

func TestConfidenceIsMaxNotBlend(t *testing.T) {
	st := &scoreState{bestSourceScore: 0.4, bestRuleScore: 0.7}
	assert.Equal(t, 0.7, st.confidence())

	st = &scoreState{bestSourceScore: 0.9, bestRuleScore: 0.7}
	assert.Equal(t, 0.9, st.confidence())
}

func TestSummarizeAppendsOverallConfidence(t *testing.T) {
	st := &scoreState{bestSourceScore: 0.6}
	st.summarize()
	assert.Equal(t, []string{"Overall confidence: 60%"}, st.reasons)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
}
