package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIgnored(t *testing.T) {
	checker := NewChecker([]string{"MyBrokerage.com", " internal.net "}, nil)

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"exact domain", "agent@mybrokerage.com", true},
		{"case insensitive", "Agent@MYBROKERAGE.COM", true},
		{"subdomain", "noreply@mail.internal.net", true},
		{"other domain", "buyer@gmail.com", false},
		{"suffix of unrelated domain", "x@notmybrokerage.org", false},
		{"no at sign", "not-an-address", false},
		{"empty address", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.IsIgnored(tt.address))
		})
	}
}

func TestIsIgnoredEmptyList(t *testing.T) {
	checker := NewChecker(nil, nil)
	assert.False(t, checker.IsIgnored("anyone@anywhere.com"))
}
