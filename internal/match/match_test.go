package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern string
		want    bool
	}{
		{
			name:    "empty pattern never matches",
			text:    "anything",
			pattern: "",
			want:    false,
		},
		{
			name:    "substring match is case insensitive",
			text:    "John Buyer <john@Zillow.com>",
			pattern: "zillow.com",
			want:    true,
		},
		{
			name:    "substring match fails on absent text",
			text:    "john@gmail.com",
			pattern: "zillow.com",
			want:    false,
		},
		{
			name:    "wildcard matches gap",
			text:    "noreply@convo.zillow.com",
			pattern: "*@*.zillow.com",
			want:    true,
		},
		{
			name:    "wildcard is case insensitive",
			text:    "Leads@Realtor.COM",
			pattern: "leads@*",
			want:    true,
		},
		{
			name:    "wildcard is unanchored",
			text:    "prefix lead@zillow.com suffix",
			pattern: "lead@*.com",
			want:    true,
		},
		{
			name:    "dot in wildcard pattern matches any character",
			text:    "user@zillowXcom",
			pattern: "*@zillow.com",
			want:    true,
		},
		{
			name:    "malformed wildcard pattern matches nothing",
			text:    "anything",
			pattern: "*[",
			want:    false,
		},
		{
			name:    "empty text with substring pattern",
			text:    "",
			pattern: "zillow",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.text, tt.pattern))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"zillow.com", "*@realtor.com"}

	assert.True(t, MatchesAny("agent@zillow.com", patterns))
	assert.True(t, MatchesAny("leads@realtor.com", patterns))
	assert.False(t, MatchesAny("friend@gmail.com", patterns))
	assert.False(t, MatchesAny("agent@zillow.com", nil))
}
