package auth

import "strings"

// BearerFromHeader extracts the token from an "Authorization: Bearer <token>"
// header value. A missing header is ErrNoCredential; anything present but not
// in bearer form is ErrMalformedCredential.
func BearerFromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrNoCredential
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedCredential
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMalformedCredential
	}
	return token, nil
}

// CredentialFrom resolves the bearer credential for a request from its cookie
// and Authorization header values, cookie taking precedence. ok is false when
// neither source carries a credential; callers treat that as DenyNoCredential,
// distinct from a credential that fails verification.
func CredentialFrom(cookie, authorizationHeader string) (string, bool) {
	if cookie != "" {
		return cookie, true
	}
	token, err := BearerFromHeader(authorizationHeader)
	if err != nil {
		return "", false
	}
	return token, true
}
