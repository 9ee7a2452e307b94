package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// AzureKeyVaultProvider serves configuration from Azure Key Vault. Secrets
// are cached for a few minutes so hot keys (the JWT signing secret above
// all) do not hit the vault per request.
type AzureKeyVaultProvider struct {
	client        *azsecrets.Client
	vaultURL      string
	cache         map[string]string
	cacheMutex    sync.RWMutex
	cacheExpiry   time.Time
	cacheDuration time.Duration
}

// transformKey converts env-style keys to vault-compatible names; Key Vault
// forbids underscores. JWT_SECRET_KEY -> JWT-SECRET-KEY.
func transformKey(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func validateAzureKeyVaultConfig(config ProviderConfig) error {
	vaultURL, ok := config.Config["vault_url"].(string)
	if !ok || vaultURL == "" {
		return fmt.Errorf("vault_url is required for the Azure Key Vault provider")
	}
	return nil
}

// NewAzureKeyVaultProvider creates a Key Vault provider authenticated via
// the default Azure credential chain (managed identity in production).
func NewAzureKeyVaultProvider(config ProviderConfig) (ConfigProvider, error) {
	if err := validateAzureKeyVaultConfig(config); err != nil {
		return nil, err
	}
	vaultURL := config.Config["vault_url"].(string)

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	client, err := azsecrets.NewClient(vaultURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	slog.Info("Azure Key Vault provider initialized", "vault_url", vaultURL)

	return &AzureKeyVaultProvider{
		client:        client,
		vaultURL:      vaultURL,
		cache:         make(map[string]string),
		cacheDuration: 5 * time.Minute,
	}, nil
}

func (akp *AzureKeyVaultProvider) Get(ctx context.Context, key string) (string, error) {
	akp.cacheMutex.RLock()
	if value, exists := akp.cache[key]; exists && time.Now().Before(akp.cacheExpiry) {
		akp.cacheMutex.RUnlock()
		return value, nil
	}
	akp.cacheMutex.RUnlock()

	akp.cacheMutex.Lock()
	defer akp.cacheMutex.Unlock()

	// Re-check after acquiring the write lock.
	if value, exists := akp.cache[key]; exists && time.Now().Before(akp.cacheExpiry) {
		return value, nil
	}

	secret, err := akp.fetchSecret(ctx, transformKey(key))
	if err != nil {
		slog.Error("Key Vault secret retrieval failed", "key", key, "error", err)
		return "", err
	}

	akp.cache[key] = secret
	akp.cacheExpiry = time.Now().Add(akp.cacheDuration)
	return secret, nil
}

func (akp *AzureKeyVaultProvider) GetWithDefault(ctx context.Context, key, defaultValue string) (string, error) {
	value, err := akp.Get(ctx, key)
	if err != nil {
		return defaultValue, nil
	}
	return value, nil
}

func (akp *AzureKeyVaultProvider) fetchSecret(ctx context.Context, secretName string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := akp.client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", secretName, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q has no value", secretName)
	}
	return *resp.Value, nil
}
