package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/audit-chat-service/internal/auth"
)

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := auth.HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := auth.HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, auth.PasswordMatches("password1", first))
	assert.True(t, auth.PasswordMatches("password1", second))
}

func TestPasswordMatches(t *testing.T) {
	hash, err := auth.HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "matching password", password: "correct horse", hash: hash, want: true},
		{name: "wrong password", password: "battery staple", hash: hash, want: false},
		{name: "malformed hash", password: "correct horse", hash: "not-a-bcrypt-hash", want: false},
		{name: "empty hash", password: "correct horse", hash: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.PasswordMatches(tt.password, tt.hash))
		})
	}
}
