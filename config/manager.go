package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"portaldesa.com/gate/config/providers"
)

// ConfigManager resolves configuration from a primary provider with an
// env-file fallback. The source is chosen by the CONFIG_SOURCE environment
// variable; provider-specific settings come from CONFIG_SOURCE_CONFIG as
// JSON. Both must be plain env vars since the manager is what everything
// else bootstraps from.
type ConfigManager struct {
	configSource     string
	provider         providers.ConfigProvider
	fallbackProvider providers.ConfigProvider
}

// NewConfigManager creates a configuration manager from the bootstrap
// environment.
func NewConfigManager() (*ConfigManager, error) {
	configSource := os.Getenv("CONFIG_SOURCE")
	if configSource == "" {
		configSource = "env-file"
	}

	var sourceConfig map[string]interface{}
	if configSource != "env-file" {
		if raw := os.Getenv("CONFIG_SOURCE_CONFIG"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &sourceConfig); err != nil {
				return nil, fmt.Errorf("failed to parse CONFIG_SOURCE_CONFIG: %w", err)
			}
		}
	}

	factory := &providers.ProviderFactory{}

	providerConfig := providers.ProviderConfig{
		ProviderType: providers.ProviderType(configSource),
		Config:       sourceConfig,
	}
	if err := factory.ValidateProviderConfig(providerConfig); err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}

	provider, err := factory.NewProvider(providerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary provider: %w", err)
	}

	fallbackProvider, err := factory.NewProvider(providers.ProviderConfig{
		ProviderType: providers.ProviderTypeEnvFile,
		Config:       make(map[string]interface{}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback provider: %w", err)
	}

	slog.Info("configuration manager initialized", "source", configSource)

	return &ConfigManager{
		configSource:     configSource,
		provider:         provider,
		fallbackProvider: fallbackProvider,
	}, nil
}

// Get retrieves a configuration value, falling back to the environment when
// the primary provider cannot serve the key. An unresolvable key is the
// empty string.
func (cm *ConfigManager) Get(key string) string {
	ctx := context.Background()

	value, err := cm.provider.Get(ctx, cm.searchKey(key))
	if err != nil {
		if cm.configSource == "env-file" {
			// The fallback is the same source; it would fail identically.
			return ""
		}
		value, err = cm.fallbackProvider.Get(ctx, key)
		if err != nil {
			return ""
		}
	}
	return value
}

// GetWithDefault retrieves a configuration value with a default.
func (cm *ConfigManager) GetWithDefault(key, defaultValue string) string {
	if value := cm.Get(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigSource returns the active configuration source name.
func (cm *ConfigManager) GetConfigSource() string {
	return cm.configSource
}

// searchKey normalizes a key for the primary provider. Azure Key Vault
// rejects underscores; env vars use them.
func (cm *ConfigManager) searchKey(key string) string {
	if cm.configSource == "azure-keyvault" {
		return strings.ReplaceAll(key, "_", "-")
	}
	return key
}
