package urlutil

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
		{"example.com", "https://example.com"},
		{"  example.com/path?q=1  ", "https://example.com/path?q=1"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"ftp://x", "ftp://x"},
		{"example.com/redirect?to=https://other.com", "https://example.com/redirect?to=https://other.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("https://x"))
	assert.True(t, IsValid("http://example.com/a/b?c=d#e"))
	assert.True(t, IsValid("https://localhost:8080"))

	assert.False(t, IsValid("ftp://x"))
	assert.False(t, IsValid("javascript:alert(1)"))
	assert.False(t, IsValid("https://"))
	assert.False(t, IsValid("example.com"))
	assert.False(t, IsValid("http://exa mple.com"))
}

func TestPrepare(t *testing.T) {
	got, err := Prepare("example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got)

	_, err = Prepare("ftp://files.example.com")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = Prepare("   ")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
