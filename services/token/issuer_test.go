package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-signing-key")

	issuedAt := time.Now()
	expiresAt := issuedAt.Add(time.Hour)

	tokenString, err := issuer.Issue("agent-1", "code_repository", "write", issuedAt, expiresAt)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := issuer.Parse(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "agent-1", claims.AgentID)
	assert.Equal(t, "agent-1", claims.Subject)
	assert.Equal(t, "code_repository", claims.Resource)
	assert.Equal(t, "write", claims.Action)
	assert.Equal(t, "agent-access-plane", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_TokensAreUnique(t *testing.T) {
	issuer := NewIssuer("test-signing-key")
	issuedAt := time.Now()

	first, err := issuer.Issue("agent-1", "code_repository", "write", issuedAt, issuedAt.Add(time.Hour))
	require.NoError(t, err)
	second, err := issuer.Issue("agent-1", "code_repository", "write", issuedAt, issuedAt.Add(time.Hour))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestIssuer_ParseExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-signing-key")

	issuedAt := time.Now().Add(-2 * time.Hour)
	tokenString, err := issuer.Issue("agent-1", "code_repository", "read", issuedAt, issuedAt.Add(time.Hour))
	require.NoError(t, err)

	_, err = issuer.Parse(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuer_ParseWrongKey(t *testing.T) {
	issuer := NewIssuer("key-one")
	other := NewIssuer("key-two")

	now := time.Now()
	tokenString, err := issuer.Issue("agent-1", "code_repository", "read", now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = other.Parse(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RandomKeyWhenUnset(t *testing.T) {
	issuer := NewIssuer("")

	now := time.Now()
	tokenString, err := issuer.Issue("agent-1", "code_repository", "read", now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := issuer.Parse(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", claims.AgentID)
	assert.NotEmpty(t, issuer.KeyFingerprint())
}

func TestIssuer_NewRequestID(t *testing.T) {
	issuer := NewIssuer("k")
	assert.NotEqual(t, issuer.NewRequestID(), issuer.NewRequestID())
}
