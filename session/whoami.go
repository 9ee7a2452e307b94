package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"portaldesa.com/gate/auth"
)

// IdentityClient re-validates a credential against the backend "who am I"
// endpoint. Timeouts are the caller's responsibility via the context; on any
// error the store fails closed.
type IdentityClient interface {
	WhoAmI(ctx context.Context, credential string) (*auth.Claims, error)
}

// HTTPIdentityClient calls GET {base}/auth/whoami with the bearer credential.
type HTTPIdentityClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPIdentityClient creates a whoami client. A nil httpClient uses
// http.DefaultClient.
func NewHTTPIdentityClient(baseURL string, httpClient *http.Client) *HTTPIdentityClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPIdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

func (c *HTTPIdentityClient) WhoAmI(ctx context.Context, credential string) (*auth.Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/whoami", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whoami rejected credential: status %d", resp.StatusCode)
	}

	var identity auth.IdentityResponse
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("whoami response undecodable: %w", err)
	}

	return &auth.Claims{
		UserID:   identity.UserID,
		Username: identity.Username,
		Email:    identity.Email,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: identity.UserID,
		},
	}, nil
}
