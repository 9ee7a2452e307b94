package auth

import "fmt"

// AuthError represents authentication and authorization failures. The Type
// tag is stable and safe to log or return to callers; Message never carries
// parser internals or key material.
type AuthError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Credential failure taxonomy. The three verification reasons exist for
// diagnostics only; every one of them produces the same security outcome as
// any other invalid credential.
var (
	ErrNoCredential        = &AuthError{"NO_CREDENTIAL", "Credential required", 401}
	ErrMalformedCredential = &AuthError{"MALFORMED_CREDENTIAL", "Credential is not a decodable token", 401}
	ErrBadSignature        = &AuthError{"BAD_SIGNATURE", "Credential signature is invalid", 401}
	ErrExpiredCredential   = &AuthError{"EXPIRED_CREDENTIAL", "Credential has expired", 401}
	ErrInsufficientRole    = &AuthError{"INSUFFICIENT_ROLE", "Insufficient role for this area", 403}
	ErrUnknownRole         = &AuthError{"UNKNOWN_ROLE", "Unrecognized role", 403}
	ErrUserInactive        = &AuthError{"USER_INACTIVE", "User account inactive", 401}
	ErrTokenRevoked        = &AuthError{"TOKEN_REVOKED", "Credential has been revoked", 401}
)

// NewAuthError creates an AuthError for cases outside the fixed taxonomy.
func NewAuthError(errorType, message string, code int) *AuthError {
	return &AuthError{Type: errorType, Message: message, Code: code}
}
