package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService signs and verifies the portal's HS256 bearer credentials.
// Verification is a pure CPU operation with no shared mutable state and is
// safe to call concurrently for independent requests.
type TokenService struct {
	secretKey []byte
	issuer    string
	leeway    time.Duration
	now       func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithLeeway sets an explicit clock-skew tolerance for expiry checks. The
// default is zero: exact timestamp comparison. Tolerance is only ever added
// through this option, never implicitly.
func WithLeeway(d time.Duration) TokenOption {
	return func(s *TokenService) { s.leeway = d }
}

// WithTimeFunc overrides the clock used for issuance and expiry validation.
func WithTimeFunc(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a TokenService for the given signing secret.
func NewTokenService(secretKey []byte, issuer string, opts ...TokenOption) (*TokenService, error) {
	if len(secretKey) == 0 {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	s := &TokenService{
		secretKey: secretKey,
		issuer:    issuer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a signed credential carrying the given identity claims.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a credential in order: structural decodability, signature
// against the service secret, expiry. The first failure short-circuits into
// one of ErrMalformedCredential, ErrBadSignature or ErrExpiredCredential.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFunc,
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(s.leeway),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedCredential
	}
	return claims, nil
}

// ParseUnverified decodes a credential without checking its signature. Used
// only to read registered claims (the jti) when revoking a token at logout;
// never for any access decision.
func (s *TokenService) ParseUnverified(tokenString string) (*Claims, error) {
	parser := new(jwt.Parser)
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, ErrMalformedCredential
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformedCredential
	}
	return claims, nil
}

// keyFunc provides the verification key and pins the signing method to HMAC.
func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secretKey, nil
}

// classifyParseError maps jwt parse failures onto the credential taxonomy.
// The reason tag is for diagnostics; every branch is an invalid credential.
func classifyParseError(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedCredential
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpiredCredential
	default:
		return ErrMalformedCredential
	}
}
