package providers

import (
	"context"
	"fmt"
)

// ProviderType identifies a configuration source.
type ProviderType string

const (
	ProviderTypeAzureKeyVault ProviderType = "azure-keyvault"
	ProviderTypeEnvFile       ProviderType = "env-file"
)

// ConfigProvider is a single configuration source.
type ConfigProvider interface {
	// Get retrieves a configuration value by key.
	Get(ctx context.Context, key string) (string, error)

	// GetWithDefault retrieves a configuration value with a fallback.
	GetWithDefault(ctx context.Context, key, defaultValue string) (string, error)
}

// ProviderConfig holds the settings for one provider instance.
type ProviderConfig struct {
	ProviderType ProviderType           `json:"provider_type"`
	Config       map[string]interface{} `json:"config"`
}

// ProviderFactory creates configuration providers.
type ProviderFactory struct{}

// NewProvider creates a provider from its configuration.
func (pf *ProviderFactory) NewProvider(config ProviderConfig) (ConfigProvider, error) {
	switch config.ProviderType {
	case ProviderTypeAzureKeyVault:
		return NewAzureKeyVaultProvider(config)
	case ProviderTypeEnvFile:
		return NewEnvFileProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.ProviderType)
	}
}

// ValidateProviderConfig checks a provider configuration before creation.
func (pf *ProviderFactory) ValidateProviderConfig(config ProviderConfig) error {
	switch config.ProviderType {
	case ProviderTypeAzureKeyVault:
		return validateAzureKeyVaultConfig(config)
	case ProviderTypeEnvFile:
		return nil
	default:
		return fmt.Errorf("unsupported provider type: %s", config.ProviderType)
	}
}
