package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRedirectURL(t *testing.T) {
	tests := []struct {
		loginURL string
		next     string
		want     string
	}{
		{loginURL: "/accounts/login/", next: "/", want: "/accounts/login/?next=%2F"},
		{loginURL: "/accounts/login/", next: "/tasks/?page=2", want: "/accounts/login/?next=%2Ftasks%2F%3Fpage%3D2"},
		{loginURL: "/login?lang=en", next: "/positions/", want: "/login?lang=en&next=%2Fpositions%2F"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginRedirectURL(tt.loginURL, tt.next))
		})
	}
}

func TestToUint64(t *testing.T) {
	for _, v := range []any{uint64(7), uint(7), 7, int64(7)} {
		got, ok := toUint64(v)
		assert.True(t, ok)
		assert.Equal(t, uint64(7), got)
	}

	_, ok := toUint64("7")
	assert.False(t, ok)
	_, ok = toUint64(-1)
	assert.False(t, ok)
}
