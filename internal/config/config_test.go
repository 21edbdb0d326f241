package config

import (
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvironment(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("JOBS_TIMEOUT", "60")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Glanzwerk CRM", cfg.App.Name)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, time.Minute, cfg.Jobs.TimeoutDuration())
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTLDuration())
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"/health", "/health/db", "/health/ready"}, cfg.RateLimit.WhitelistPaths)
	assert.Equal(t, "host=db.internal port=5432 user=crm_user password=crm_password dbname=crm sslmode=disable",
		cfg.Database.ConnectionString())
}

func TestSecretSource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		vault  string
		env    string
		want   secrets.SecretSource
	}{
		{"auto without vault name", "auto", "", "production", secrets.SourceEnvironment},
		{"auto in production", "auto", "kv-glanzwerk", "production", secrets.SourceVault},
		{"auto in development", "auto", "kv-glanzwerk", "development", secrets.SourceEnvironment},
		{"explicit environment", "environment", "kv-glanzwerk", "production", secrets.SourceEnvironment},
		{"explicit vault", "vault", "kv-glanzwerk", "development", secrets.SourceVault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				App:     AppConfig{Environment: tt.env},
				Secrets: SecretsConfig{Source: tt.source, KeyVaultName: tt.vault},
			}
			assert.Equal(t, tt.want, cfg.secretSource())
		})
	}
}

func TestValidateSecrets(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}, Auth: AuthConfig{JWTSecret: defaultJWTSecret}}
	assert.Error(t, cfg.validateSecrets())

	cfg.Auth.JWTSecret = "rotated"
	assert.NoError(t, cfg.validateSecrets())

	cfg = &Config{App: AppConfig{Environment: "development"}}
	assert.NoError(t, cfg.validateSecrets())
}
