package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"  Example.COM ", "example.com"},
		{"https://www.example.com/path?q=1", "www.example.com"},
		{"example.com:8443", "example.com"},
		{"example.com.", "example.com"},
		{"shop.example.co.uk/", "shop.example.co.uk"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "localhost", "user@example.com", "8.8.8.8", "exa mple.com"} {
		t.Run(in, func(t *testing.T) {
			_, err := Normalize(in)
			assert.ErrorIs(t, err, ErrInvalidDomain)
		})
	}
}

func TestApex(t *testing.T) {
	assert.Equal(t, "example.com", Apex("www.example.com"))
	assert.Equal(t, "example.co.uk", Apex("shop.example.co.uk"))
	assert.Equal(t, "com", Apex("com"))
}
