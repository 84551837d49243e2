package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokens_IssueAndVerify(t *testing.T) {
	// given
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens(testSecret, "storefront", time.Hour, func() time.Time { return now })

	// when
	signed, err := tokens.Issue("user1", "admin")
	require.NoError(t, err)
	principal, err := tokens.Verify(context.Background(), signed)

	// then
	require.NoError(t, err)
	assert.Equal(t, "user1", principal.Subject)
	assert.Equal(t, "admin", principal.Role)
}

func TestTokens_Verify_Rejects(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokens(testSecret, "storefront", time.Hour, func() time.Time { return now })
	valid, err := issuer.Issue("user1", "admin")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		verifier *Tokens
		token    string
	}{
		{
			name:     "expired",
			verifier: NewTokens(testSecret, "storefront", time.Hour, func() time.Time { return now.Add(2 * time.Hour) }),
			token:    valid,
		},
		{
			name:     "wrong secret",
			verifier: NewTokens("ffffffffffffffffffffffffffffffff", "storefront", time.Hour, func() time.Time { return now }),
			token:    valid,
		},
		{
			name:     "wrong issuer",
			verifier: NewTokens(testSecret, "someone-else", time.Hour, func() time.Time { return now }),
			token:    valid,
		},
		{
			name:     "garbage",
			verifier: issuer,
			token:    "not-a-token",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			_, err := tc.verifier.Verify(context.Background(), tc.token)

			// then
			assert.Error(t, err)
		})
	}
}
