package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token fails verification
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token has expired
	ErrTokenExpired = errors.New("token expired")
)

// Claims represents the claims embedded in an issued access token.
// The token binds the grant to the agent, the resource/action pair and the
// issuance time; consumers treat the string as opaque.
type Claims struct {
	jwt.RegisteredClaims
	AgentID  string `json:"agent_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Issuer mints signed access tokens for granted requests
type Issuer struct {
	signingKey []byte
	issuer     string
}

// NewIssuer creates a token issuer. When signingKey is empty a random
// per-process key is generated, which is fine outside production: tokens are
// then only verifiable within the issuing process lifetime.
func NewIssuer(signingKey string) *Issuer {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &Issuer{
		signingKey: key,
		issuer:     "agent-access-plane",
	}
}

// NewRequestID generates a unique id for one evaluated request
func (i *Issuer) NewRequestID() string {
	return uuid.NewString()
}

// Issue mints a signed token for the agent/resource/action triple, valid
// from issuedAt until expiresAt
func (i *Issuer) Issue(agentID, resource, action string, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   agentID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AgentID:  agentID,
		Resource: resource,
		Action:   action,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token issued by this issuer and returns its claims
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// KeyFingerprint returns a short hex fingerprint of the signing key for logs
func (i *Issuer) KeyFingerprint() string {
	if len(i.signingKey) < 4 {
		return ""
	}
	return hex.EncodeToString(i.signingKey[:4])
}
