package providers

import (
	"context"
	"fmt"
	"os"
)

// EnvFileProvider reads configuration from environment variables.
type EnvFileProvider struct {
	config map[string]interface{}
}

// NewEnvFileProvider creates an environment provider.
func NewEnvFileProvider(config ProviderConfig) (ConfigProvider, error) {
	return &EnvFileProvider{config: config.Config}, nil
}

func (ep *EnvFileProvider) Get(ctx context.Context, key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("environment variable %q not set", key)
	}
	return value, nil
}

func (ep *EnvFileProvider) GetWithDefault(ctx context.Context, key, defaultValue string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return defaultValue, nil
}
