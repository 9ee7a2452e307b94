package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portaldesa.com/gate/pg/model"
)

// AuthService issues, revokes and re-validates portal credentials. It backs
// the login/logout/whoami endpoints that the session store talks to; the
// access decision engine itself never touches the database.
type AuthService struct {
	db     model.DB
	tokens *TokenService
	ttl    time.Duration
}

// NewAuthService creates the credential service. ttl is the lifetime of
// issued credentials.
func NewAuthService(db model.DB, tokens *TokenService, ttl time.Duration) *AuthService {
	return &AuthService{
		db:     db,
		tokens: tokens,
		ttl:    ttl,
	}
}

// TokenTTL is the lifetime of credentials the service issues.
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

// Login verifies a username/password pair and issues a signed credential.
// The error is identical for unknown users and wrong passwords.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, NewAuthError("INVALID_CREDENTIALS", "Invalid username or password", 401)
	}

	if !user.IsActive {
		return "", nil, ErrUserInactive
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return "", nil, NewAuthError("INVALID_CREDENTIALS", "Invalid username or password", 401)
	}

	token, err := s.tokens.Issue(Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("could not issue credential: %w", err)
	}

	return token, user, nil
}

// WhoAmI re-validates a credential against the current account state: the
// signature and expiry first, then the denylist, then the account itself.
// This is the remote check the session store performs on initialization.
func (s *AuthService) WhoAmI(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	if denied, _ := s.db.IsTokenDenied(ctx, claims.ID); denied {
		return nil, ErrTokenRevoked
	}

	user, err := s.db.GetUserByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrUserInactive
	}

	return claims, nil
}

// Logout revokes a credential by adding its jti to the denylist until its
// natural expiry. An undecodable token is ignored: there is nothing to
// revoke and the caller clears its stored copy regardless.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.ParseUnverified(tokenString)
	if err != nil {
		return nil
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.db.DenyToken(ctx, claims.ID, expiresAt)
}

// CreateUser provisions a portal account. The role must normalize to one of
// the recognized roles; an account stored with an unknown role would fail
// every privilege check under the closed-world rule.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password, role string) error {
	normalized, ok := NormalizeRole(role)
	if !ok {
		return ErrUnknownRole
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	return s.db.CreateUser(ctx, &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Role:         string(normalized),
		PasswordHash: hash,
		IsActive:     true,
	})
}
