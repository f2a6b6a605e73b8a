// Package auth issues and verifies bearer tokens and resolves the caller's
// identity for protected endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm is used when configuration leaves the algorithm empty.
const DefaultAlgorithm = "HS256"

// Claims carries the username in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService signs and verifies access tokens with a shared HMAC secret.
// The secret and algorithm are fixed at construction.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService validates the signing configuration. Only HMAC algorithms
// are accepted.
func NewTokenService(secret []byte, algorithm string, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	return &TokenService{secret: secret, method: method, ttl: ttl, now: time.Now}, nil
}

// TTL is the validity window used by IssueAccessToken.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Algorithm is the configured algorithm name.
func (s *TokenService) Algorithm() string { return s.method.Alg() }

// IssueAccessToken issues a token for subject valid for the configured window.
func (s *TokenService) IssueAccessToken(subject string) (string, error) {
	return s.Issue(subject, s.ttl)
}

// Issue signs a token for subject that expires ttl from now.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the token's subject. Bad signatures, undecodable input,
// expired tokens and tokens without a subject all produce the same
// common.Unauthenticated error.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", common.Unauthenticated()
	}

	return claims.Subject, nil
}
