package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity headers attached to the response when a request is allowed, so
// downstream views can read the caller's identity without re-verifying.
const (
	HeaderUserID    = "x-user-id"
	HeaderUserRole  = "x-user-role"
	HeaderUserEmail = "x-user-email"
)

// CookieName is the credential cookie set at login and cleared on logout or
// on an invalid-credential denial.
const CookieName = "token"

// Claims is the decoded credential payload. It is produced fresh on every
// verification and never trusted without signature and expiry validation.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"` // raw; normalize with NormalizeRole before any check
	jwt.RegisteredClaims
}

// IdentityHeaders builds the pass-through header set for an allowed request.
// The role header carries the normalized role, not the raw claim string.
func (c *Claims) IdentityHeaders(role Role) map[string]string {
	return map[string]string{
		HeaderUserID:    c.UserID,
		HeaderUserRole:  string(role),
		HeaderUserEmail: c.Email,
	}
}
