package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadengine/lead-engine/internal/core"
)

func newTestExtractor(t *testing.T) *core.LeadExtractor {
	t.Helper()
	return core.NewLeadExtractor(newTestAnalyzer(newTestStore()), zap.NewNop())
}

func TestExtractLeadDataNonLead(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.ExtractLeadData(context.Background(), &core.Email{
		From:    "friend@gmail.com",
		Subject: "Lunch on Friday",
		Body:    "Usual place at noon?",
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Email does not appear to be a lead", result.Error)
	assert.Nil(t, result.LeadData)
	require.NotNil(t, result.Analysis)
	assert.False(t, result.Analysis.IsLead)
}

func TestExtractLeadDataFields(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.ExtractLeadData(context.Background(), &core.Email{
		From:    "notifications@zillow.com",
		Subject: "Interested in your listing",
		Body: "Hi, my name is Sarah Connor and I am interested in the property at " +
			"456 Oak Avenue. We need 3 bedrooms. Our budget is around $450,000 " +
			"and we want to buy within 2 months. Reach me at 512-555-7890 or " +
			"sarah@example.com.",
	})

	require.True(t, result.Success)
	lead := result.LeadData
	require.NotNil(t, lead)

	assert.Equal(t, "Sarah", lead.FirstName)
	assert.Equal(t, "Connor", lead.LastName)
	assert.Equal(t, []string{"notifications@zillow.com", "sarah@example.com"}, lead.Email)
	assert.Equal(t, []string{"512-555-7890"}, lead.Phone)
	assert.Equal(t, "456 Oak Avenue", lead.PropertyAddress)
	assert.Contains(t, lead.PropertyDetails, "3 bedrooms")
	assert.Equal(t, "budget is around $450,000", lead.PriceRange)
	assert.Equal(t, "buy within 2 months", lead.Timeline)
	assert.Equal(t, "Zillow", lead.LeadSource)
	assert.Equal(t, "src-zillow", lead.LeadSourceID)
	assert.Equal(t, result.Analysis.ConfidenceScore, lead.ConfidenceScore)
}

func TestExtractLeadDataNameFallbacks(t *testing.T) {
	extractor := newTestExtractor(t)

	t.Run("header display name", func(t *testing.T) {
		result := extractor.ExtractLeadData(context.Background(), &core.Email{
			From:    "John Buyer <notifications@zillow.com>",
			Subject: "Interested in your listing",
			Body:    "I am interested in the property.",
		})
		require.True(t, result.Success)
		assert.Equal(t, "John", result.LeadData.FirstName)
		assert.Equal(t, "Buyer", result.LeadData.LastName)
	})

	t.Run("single word name keeps sentinel last name", func(t *testing.T) {
		result := extractor.ExtractLeadData(context.Background(), &core.Email{
			From:    "Madonna <notifications@zillow.com>",
			Subject: "Interested in your listing",
			Body:    "I am interested in the property.",
		})
		require.True(t, result.Success)
		assert.Equal(t, "Madonna", result.LeadData.FirstName)
		assert.Equal(t, "Lead", result.LeadData.LastName)
	})

	t.Run("bare address yields sentinels", func(t *testing.T) {
		result := extractor.ExtractLeadData(context.Background(), &core.Email{
			From:    "notifications@zillow.com",
			Subject: "Interested in your listing",
			Body:    "I am interested in the property.",
		})
		require.True(t, result.Success)
		assert.Equal(t, "Unknown", result.LeadData.FirstName)
		assert.Equal(t, "Lead", result.LeadData.LastName)
	})
}

func TestExtractLeadDataFallbackSource(t *testing.T) {
	extractor := newTestExtractor(t)

	// Matches the rule but no source, so the source name falls back.
	result := extractor.ExtractLeadData(context.Background(), &core.Email{
		From:    "jane@gmail.com",
		Subject: "Want to buy a house",
		Body:    "We are looking for a condo, budget is around $400,000.",
	})

	require.True(t, result.Success)
	assert.Equal(t, "Email", result.LeadData.LeadSource)
	assert.Empty(t, result.LeadData.LeadSourceID)
}
