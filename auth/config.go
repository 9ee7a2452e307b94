package auth

import (
	"fmt"
	"time"

	"portaldesa.com/gate/config"
)

// Settings holds the engine configuration resolved from the config system.
type Settings struct {
	SecretKey []byte
	Issuer    string
	TokenTTL  time.Duration

	// ClockSkewTolerance widens expiry checks by an explicit, configured
	// amount. It defaults to zero: exact timestamp comparison.
	ClockSkewTolerance time.Duration

	Paths EnginePaths
}

// LoadSettings reads engine settings from the global config system, which
// must have been initialized first. Only the signing secret is mandatory.
func LoadSettings() (*Settings, error) {
	secretKey := config.GetConfig("JWT_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY configuration is required")
	}

	tokenTTL, err := parseDuration(config.GetConfigWithDefault("ACCESS_TOKEN_EXPIRY", "4h"), 4*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRY: %w", err)
	}

	skew, err := parseDuration(config.GetConfigWithDefault("CLOCK_SKEW_TOLERANCE", "0s"), 0)
	if err != nil {
		return nil, fmt.Errorf("invalid CLOCK_SKEW_TOLERANCE: %w", err)
	}

	paths := DefaultEnginePaths()
	paths.Login = config.GetConfigWithDefault("LOGIN_PATH", paths.Login)
	paths.Unauthorized = config.GetConfigWithDefault("UNAUTHORIZED_PATH", paths.Unauthorized)
	paths.RoleFallback = config.GetConfigWithDefault("ROLE_FALLBACK_PATH", paths.RoleFallback)

	return &Settings{
		SecretKey:          []byte(secretKey),
		Issuer:             config.GetConfigWithDefault("JWT_ISSUER", "portal-gate"),
		TokenTTL:           tokenTTL,
		ClockSkewTolerance: skew,
		Paths:              paths,
	}, nil
}

// NewTokenService builds the token service described by the settings.
func (s *Settings) NewTokenService() (*TokenService, error) {
	return NewTokenService(s.SecretKey, s.Issuer, WithLeeway(s.ClockSkewTolerance))
}

// parseDuration parses a duration string with a fallback for empty input.
func parseDuration(durationStr string, fallback time.Duration) (time.Duration, error) {
	if durationStr == "" {
		return fallback, nil
	}
	return time.ParseDuration(durationStr)
}
