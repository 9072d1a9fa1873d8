package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyAddress(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"street suffix", "I saw the listing at 123 Main Street yesterday", "123 Main Street"},
		{"abbreviated suffix", "Interested in 42 Oak Ave", "42 Oak Ave"},
		{"multi word street", "Offer on 1500 North Lamar Blvd pending", "1500 North Lamar Blvd"},
		{"no address", "Looking for something downtown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PropertyAddress(tt.text))
		})
	}
}

func TestPropertyDetails(t *testing.T) {
	t.Run("captures one sentence per keyword", func(t *testing.T) {
		text := "We need 3 bedrooms and 2 bathrooms. The lot should be half an acre. Thanks"
		got := PropertyDetails(text)
		assert.Contains(t, got, "3 bedrooms and 2 bathrooms")
		assert.Contains(t, got, "lot should be half an acre")
	})

	t.Run("sentence with several keywords appears once", func(t *testing.T) {
		text := "Must have 4 bedrooms, 3 bathrooms and a 2 car garage. Nothing else matters."
		got := PropertyDetails(text)
		assert.Equal(t, "Must have 4 bedrooms, 3 bathrooms and a 2 car garage", got)
	})

	t.Run("no keywords yields empty", func(t *testing.T) {
		assert.Equal(t, "", PropertyDetails("Just saying hello"))
	})
}

func TestPriceRange(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"dollar range with dash", "Our range is $400,000 - $550,000 firm", "$400,000 - $550,000"},
		{"dollar range with to", "somewhere between $300,000 to $400,000", "$300,000 to $400,000"},
		{"thousands shorthand", "thinking 400-500k for the right place", "400-500k"},
		{"budget phrase", "Our budget is around $650,000 for this move", "budget is around $650,000"},
		{"no price", "money is no object", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceRange(tt.text))
		})
	}
}

func TestPropertyType(t *testing.T) {
	assert.Equal(t, "condo", PropertyType("Looking for a condo downtown"))
	assert.Equal(t, "single family home", PropertyType("A Single Family Home with a yard"))
	assert.Equal(t, "", PropertyType("anything works"))

	// "land" is matched last so it cannot shadow longer entries.
	assert.Equal(t, "townhouse", PropertyType("a townhouse in Lakeland"))
}

func TestLocationPreferences(t *testing.T) {
	t.Run("first matching sentence", func(t *testing.T) {
		text := "Hello there. We want a good school district. Also a big yard."
		assert.Equal(t, "We want a good school district", LocationPreferences(text))
	})

	t.Run("no location language", func(t *testing.T) {
		assert.Equal(t, "", LocationPreferences("Just the house itself matters"))
	})
}

func TestTimeline(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"action with timeframe", "We want to buy within 3 months if possible", "buy within 3 months"},
		{"explicit timeline", "Our timeline is about 6 weeks", "timeline is about 6 weeks"},
		{"urgency keyword", "We need to find something asap", "asap"},
		{"no timeline", "whenever it happens it happens", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Timeline(tt.text))
		})
	}
}
