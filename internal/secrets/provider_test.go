package secrets_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	values map[string]string
	calls  int
}

func (f *fakeBackend) GetSecret(_ context.Context, name string) (string, error) {
	f.calls++
	if v, ok := f.values[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, "development"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, ""))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceAuto, "production"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceEnvironment, "production"))
}

func TestProvider_Resolve(t *testing.T) {
	backend := &fakeBackend{values: map[string]string{"jwt-secret": "from-vault"}}
	p := secrets.NewProviderWithBackend(secrets.SourceVault, backend, zap.NewNop())

	t.Setenv("TEST_DB_PASSWORD", "from-env")

	jwt := "default"
	password := ""
	apiKey := "keep-me"

	missing := p.Resolve(context.Background(), []secrets.Binding{
		{Secret: "jwt-secret", Env: "TEST_JWT_SECRET_UNSET", Target: &jwt},
		{Secret: "db-password", Env: "TEST_DB_PASSWORD", Target: &password},
		{Secret: "api-key", Env: "TEST_API_KEY_UNSET", Target: &apiKey},
	})

	assert.Equal(t, "from-vault", jwt)
	assert.Equal(t, "from-env", password, "environment override wins")
	assert.Equal(t, "keep-me", apiKey, "unresolved bindings keep their value")
	assert.Equal(t, []string{"api-key"}, missing)
}

func TestProvider_EnvironmentSource(t *testing.T) {
	p := secrets.NewProviderWithBackend(secrets.SourceEnvironment, nil, zap.NewNop())
	t.Setenv("TEST_SECRET_VALUE", "abc")

	v, err := p.GetSecret(context.Background(), "TEST_SECRET_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	_, err = p.GetSecret(context.Background(), "TEST_SECRET_MISSING")
	assert.Error(t, err)
	assert.False(t, p.IsVaultEnabled())
}

func TestCachingBackend(t *testing.T) {
	backend := &fakeBackend{values: map[string]string{"a": "1"}}
	c := secrets.NewCachingBackend(backend, time.Hour)

	for i := 0; i < 3; i++ {
		v, err := c.GetSecret(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
	}
	assert.Equal(t, 1, backend.calls)

	c.Clear()
	_, err := c.GetSecret(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)

	_, err = c.GetSecret(context.Background(), "missing")
	assert.Error(t, err)
}
