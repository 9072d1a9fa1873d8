package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderAddress(t *testing.T) {
	assert.Equal(t, "john@example.com", SenderAddress("John Buyer <john@example.com>"))
	assert.Equal(t, "john@example.com", SenderAddress("john@example.com"))
	assert.Equal(t, "", SenderAddress("not an address"))
}

func TestSenderName(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{"display name with address", "John Buyer <john@example.com>", "John Buyer"},
		{"quoted display name", `"Jane Seller" <jane@example.com>`, "Jane Seller"},
		{"bare address has no name", "john@example.com", ""},
		{"all caps is title cased", "JOHN BUYER <john@example.com>", "John Buyer"},
		{"mixed case left alone", "Ronald McDonald <rm@example.com>", "Ronald McDonald"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SenderName(tt.from))
		})
	}
}

func TestName(t *testing.T) {
	t.Run("signature wins over intro phrase", func(t *testing.T) {
		body := "Hi, my name is Alice Intro.\n\nThanks!\n--\nBob Signature\n555-123-4567"
		assert.Equal(t, "Bob Signature", Name("Carol Header <c@example.com>", body))
	})

	t.Run("intro phrase wins over header", func(t *testing.T) {
		body := "Hello, my name is Alice Intro and I want to buy a house."
		assert.Equal(t, "Alice Intro", Name("Carol Header <c@example.com>", body))
	})

	t.Run("falls back to header display name", func(t *testing.T) {
		assert.Equal(t, "Carol Header", Name("Carol Header <c@example.com>", "no names here"))
	})

	t.Run("empty when nothing available", func(t *testing.T) {
		assert.Equal(t, "", Name("c@example.com", "no names here"))
	})

	t.Run("signature line that is not a name is skipped", func(t *testing.T) {
		body := "Looking to buy.\n--\n555-123-4567\nAlice"
		assert.Equal(t, "", Name("c@example.com", body))
	})
}

func TestEmails(t *testing.T) {
	t.Run("sender is prepended", func(t *testing.T) {
		got := Emails("John <john@example.com>", "Also reach me at jane@other.com.")
		assert.Equal(t, []string{"john@example.com", "jane@other.com"}, got)
	})

	t.Run("duplicates differing only in case collapse to first seen", func(t *testing.T) {
		got := Emails("john@example.com", "Write to John@Example.COM anytime")
		assert.Equal(t, []string{"john@example.com"}, got)
	})

	t.Run("no addresses yields empty result", func(t *testing.T) {
		assert.Empty(t, Emails("no address", "nothing here"))
	})
}

func TestPhones(t *testing.T) {
	t.Run("formats", func(t *testing.T) {
		body := "Call me at (512) 555-1234 or 512.555.9876, or +1 512-555-0000."
		got := Phones(body)
		assert.Len(t, got, 3)
	})

	t.Run("duplicates are removed", func(t *testing.T) {
		body := "Call 512-555-1234. Again: 512-555-1234."
		assert.Len(t, Phones(body), 1)
	})

	t.Run("rejects area codes starting with 0 or 1", func(t *testing.T) {
		assert.Empty(t, Phones("ref 112-555-1234"))
	})
}

func TestCompany(t *testing.T) {
	assert.Equal(t, "Acme Corp", Company("I work at Acme Corp as a broker."))
	assert.Equal(t, "Initech LLC", Company("I'm with Initech LLC."))
	assert.Equal(t, "", Company("no company mentioned"))
}

func TestPosition(t *testing.T) {
	assert.Equal(t, "mortgage broker", Position("I am a mortgage broker at Acme Corp."))
	assert.Equal(t, "agent", Position("I'm an agent with Initech LLC."))
	assert.Equal(t, "", Position("no position mentioned"))
}
