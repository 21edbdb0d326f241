package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glanzwerk/crm/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is shared by the API server, the migrate command and the terminal client
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	ApiKey    ApiKeyConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
	Client    ClientConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite". SQLite is for local development and tests.
	Driver          string
	SQLitePath      string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// AutoMigrate creates the schema from the models instead of running SQL migrations
	AutoMigrate bool
}

// AuthConfig configures session tokens and the bootstrap admin account
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	// TokenTTL is the session lifetime in minutes
	TokenTTL      int
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// ApiKeyConfig holds the key accepted in the x-api-key header for
// machine-to-machine calls
type ApiKeyConfig struct {
	Value string
}

type StorageConfig struct {
	// Mode is "local" or "azure"
	Mode          string
	LocalBasePath string
	// CloudConnectionString is a connection string or an account URL
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source is "environment", "vault" or "auto". Auto reads the vault outside
	// development when a vault name is configured.
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout   int
	WriteTimeout  int
	EnableSwagger bool
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge caches preflight answers, in seconds
	MaxAge int
}

type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions is DENY, SAMEORIGIN, or empty to disable
	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      bool
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// RateLimitConfig sets per-minute budgets. Anonymous requests count per
// client address, signed-in ones per user or portal customer.
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// JobsConfig holds the cron schedules of background jobs (6-field, with seconds)
type JobsConfig struct {
	Enabled                 bool
	OverdueInvoicesSchedule string
	ExpiredQuotesSchedule   string
	// Timeout bounds a single job run, in seconds
	Timeout int
}

// ClientConfig configures the API client used by the terminal front end
type ClientConfig struct {
	BaseURL string
	// Timeout per request in seconds
	Timeout int
	PerPage int
	LogFile string
	// Events subscribes list screens to the server's change feed
	Events bool
}

// ConnectionString builds the lib/pq keyword DSN
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func (s *ServerConfig) ReadTimeoutDuration() time.Duration { return seconds(s.ReadTimeout) }

func (s *ServerConfig) WriteTimeoutDuration() time.Duration { return seconds(s.WriteTimeout) }

func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration { return seconds(d.ConnMaxLifetime) }

func (a *AuthConfig) TokenTTLDuration() time.Duration { return time.Duration(a.TokenTTL) * time.Minute }

func (j *JobsConfig) TimeoutDuration() time.Duration { return seconds(j.Timeout) }

func (c *ClientConfig) TimeoutDuration() time.Duration { return seconds(c.Timeout) }

func (s *SecretsConfig) CacheTTLDuration() time.Duration { return seconds(s.CacheTTL) }

// Load reads .env, then config.{json,yaml} from . or ./config, then the
// environment (DATABASE_HOST overrides database.host). Secrets stay as found;
// LoadWithSecrets resolves them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// conventional names used by the deployment scripts
	for target, env := range map[*string]string{
		&cfg.ApiKey.Value:         "ADMIN_API_KEY",
		&cfg.Auth.JWTSecret:       "JWT_SECRET",
		&cfg.Secrets.KeyVaultName: "AZURE_KEY_VAULT_NAME",
	} {
		if value := v.GetString(env); value != "" {
			*target = value
		}
	}
	return &cfg, nil
}

// LoadWithSecrets loads the configuration and, when the secret source
// resolves to the vault, fills SecretBindings from Azure Key Vault.
// Environment variables still win over vault values.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	source := cfg.secretSource()
	logger.Info("secret source selected",
		zap.String("source", string(source)),
		zap.String("environment", cfg.App.Environment))
	if source != secrets.SourceVault {
		return cfg, cfg.validateSecrets()
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       source,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     cfg.Secrets.CacheTTLDuration(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if missing := provider.Resolve(ctx, cfg.SecretBindings()); len(missing) > 0 {
		logger.Warn("secrets not found in vault, keeping configured values", zap.Strings("secrets", missing))
	}
	return cfg, cfg.validateSecrets()
}

func (c *Config) secretSource() secrets.SecretSource {
	source := secrets.SecretSource(c.Secrets.Source)
	if source == secrets.SourceAuto && c.Secrets.KeyVaultName == "" {
		return secrets.SourceEnvironment
	}
	return secrets.ResolveSource(source, c.App.Environment)
}

// SecretBindings lists the config fields that may come from Key Vault
func (c *Config) SecretBindings() []secrets.Binding {
	return []secrets.Binding{
		{Secret: "POSTGRES-HOST", Env: "DATABASE_HOST", Target: &c.Database.Host},
		{Secret: "POSTGRES-USER", Env: "DATABASE_USER", Target: &c.Database.User},
		{Secret: "POSTGRES-PASSWORD", Env: "DATABASE_PASSWORD", Target: &c.Database.Password},
		{Secret: "jwt-secret", Env: "JWT_SECRET", Target: &c.Auth.JWTSecret},
		{Secret: "admin-password", Env: "AUTH_ADMINPASSWORD", Target: &c.Auth.AdminPassword},
		{Secret: "admin-api-key", Env: "ADMIN_API_KEY", Target: &c.ApiKey.Value},
		{Secret: "storage-connection-string", Env: "STORAGE_CLOUDCONNECTIONSTRING", Target: &c.Storage.CloudConnectionString},
	}
}

// validateSecrets refuses to start a non-development server with the built-in signing key
func (c *Config) validateSecrets() error {
	switch c.App.Environment {
	case "development", "local", "test", "":
		return nil
	}
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in %s", c.App.Environment)
	}
	return nil
}

const defaultJWTSecret = "development-only-secret-change-me"

var defaults = map[string]interface{}{
	"app.name":        "Glanzwerk CRM",
	"app.environment": "development",
	"app.port":        8080,

	"database.driver":          "postgres",
	"database.sqlitePath":      "crm.db",
	"database.host":            "localhost",
	"database.port":            5432,
	"database.name":            "crm",
	"database.user":            "crm_user",
	"database.password":        "crm_password",
	"database.sslMode":         "disable",
	"database.maxOpenConns":    25,
	"database.maxIdleConns":    5,
	"database.connMaxLifetime": 300,
	"database.autoMigrate":     false,

	"auth.jwtSecret": defaultJWTSecret,
	"auth.issuer":    "glanzwerk-crm",
	"auth.tokenTTL":  720,
	"auth.adminName": "Administrator",

	"secrets.source":       "auto",
	"secrets.cacheEnabled": true,
	"secrets.cacheTTL":     300,

	"storage.mode":            "local",
	"storage.localBasePath":   "./storage",
	"storage.cloudContainer":  "quality-photos",
	"storage.maxUploadSizeMB": 20,

	"logging.level":  "info",
	"logging.format": "console",

	"server.readTimeout":   30,
	"server.writeTimeout":  30,
	"server.enableSwagger": true,

	"cors.allowedOrigins":   []string{},
	"cors.allowedMethods":   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"cors.allowedHeaders":   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
	"cors.exposedHeaders":   []string{"Location", "X-Request-ID"},
	"cors.allowCredentials": true,
	"cors.maxAge":           300,

	"security.enableHSTS":            false,
	"security.hstsMaxAge":            31536000,
	"security.hstsIncludeSubdomains": true,
	"security.hstsPreload":           false,
	"security.contentSecurityPolicy": "default-src 'self'",
	"security.frameOptions":          "DENY",
	"security.contentTypeNosniff":    true,
	"security.xssProtection":         true,
	"security.referrerPolicy":        "strict-origin-when-cross-origin",
	"security.permissionsPolicy":     "geolocation=(), microphone=(), camera=()",

	"rateLimit.enabled":               true,
	"rateLimit.requestsPerMinute":     60,
	"rateLimit.requestsPerMinuteAuth": 300,
	"rateLimit.whitelistIPs":          []string{"127.0.0.1", "::1"},
	"rateLimit.whitelistPaths":        []string{"/health", "/health/db", "/health/ready"},

	// 02:15 and 02:30 daily
	"jobs.enabled":                 true,
	"jobs.overdueInvoicesSchedule": "0 15 2 * * *",
	"jobs.expiredQuotesSchedule":   "0 30 2 * * *",
	"jobs.timeout":                 300,

	"client.baseURL": "http://localhost:8080",
	"client.timeout": 15,
	"client.perPage": 50,
	"client.logFile": "crm-client.log",
	"client.events":  true,
}
