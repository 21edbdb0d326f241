package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// Backend fetches one secret by name
type Backend interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// keyVault reads secrets from Azure Key Vault
type keyVault struct {
	client *azsecrets.Client
}

func (k *keyVault) GetSecret(ctx context.Context, name string) (string, error) {
	resp, err := k.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get secret '%s': %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", name)
	}
	return *resp.Value, nil
}

// NewVaultBackend creates an Azure Key Vault backend authenticated with
// DefaultAzureCredential (environment, managed identity or Azure CLI login).
func NewVaultBackend(cfg *VaultConfig, logger *zap.Logger) (Backend, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	logger.Info("Azure Key Vault client initialized",
		zap.String("vault_url", vaultURL),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
	)

	var backend Backend = &keyVault{client: client}
	if cfg.CacheEnabled {
		backend = NewCachingBackend(backend, cfg.CacheTTL)
	}
	return backend, nil
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// CachingBackend memoizes another backend for a fixed TTL
type CachingBackend struct {
	next  Backend
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	cache map[string]cachedSecret
}

// NewCachingBackend wraps next; a zero ttl defaults to five minutes
func NewCachingBackend(next Backend, ttl time.Duration) *CachingBackend {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &CachingBackend{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cachedSecret),
	}
}

// GetSecret returns a cached value while it is fresh
func (c *CachingBackend) GetSecret(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	if cached, ok := c.cache[name]; ok && c.now().Before(cached.expiresAt) {
		c.mu.Unlock()
		return cached.value, nil
	}
	c.mu.Unlock()

	value, err := c.next.GetSecret(ctx, name)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[name] = cachedSecret{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

// Clear drops all cached secrets
func (c *CachingBackend) Clear() {
	c.mu.Lock()
	c.cache = make(map[string]cachedSecret)
	c.mu.Unlock()
}
