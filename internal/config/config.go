package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/companyintel/research-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	CoreSignal CoreSignalConfig
	Apollo     ApolloConfig
	Tavily     TavilyConfig
	LLM        LLMConfig
	Email      EmailConfig
	ApiKey     ApiKeyConfig
	Storage    StorageConfig
	Secrets    SecretsConfig
	Logging    LoggingConfig
	Server     ServerConfig
	Report     ReportConfig
	Jobs       JobsConfig
	Cache      CacheConfig
	CORS       CORSConfig
	Security   SecurityConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// CoreSignalConfig holds configuration for the CoreSignal multi-source company API
type CoreSignalConfig struct {
	// BaseURL is the API root, e.g. https://api.coresignal.com
	BaseURL string
	// APIKey is sent in the apikey header (from CORESIGNAL-API-KEY secret)
	APIKey string
	// Timeout is the per-request timeout (seconds)
	Timeout int
	// MaxRetries is the number of attempts for transient failures
	MaxRetries int
	// RequestsPerSecond throttles outbound calls
	RequestsPerSecond float64
}

// ApolloConfig holds configuration for the Apollo organization enrichment API
type ApolloConfig struct {
	// BaseURL is the API root, e.g. https://api.apollo.io/api/v1
	BaseURL string
	// APIKey is sent in the x-api-key header (from APOLLO-API-KEY secret)
	APIKey string
	// Timeout is the per-request timeout (seconds)
	Timeout int
	// MaxRetries is the number of attempts for transient failures
	MaxRetries int
	// RequestsPerSecond throttles outbound calls
	RequestsPerSecond float64
}

// TavilyConfig holds configuration for the Tavily web search API
type TavilyConfig struct {
	// BaseURL is the API root, e.g. https://api.tavily.com
	BaseURL string
	// APIKey is sent in the request body (from TAVILY-API-KEY secret)
	APIKey string
	// Timeout is the per-request timeout (seconds)
	Timeout int
	// MaxRetries is the number of attempts for transient failures
	MaxRetries int
	// RequestsPerSecond throttles outbound calls
	RequestsPerSecond float64
}

// LLMConfig holds configuration for the report-writing model
type LLMConfig struct {
	// Enabled controls whether reports are written by the model.
	// When false, the deterministic template report is used instead.
	Enabled bool
	// APIKey is the Gemini API key (from GEMINI-API-KEY secret)
	APIKey string
	// Model is the Gemini model name
	Model string
	// Timeout is the per-call timeout (seconds). Report prompts carry large
	// JSON payloads, so this is generous by default.
	Timeout int
}

// EmailConfig holds SMTP configuration for report delivery
type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	// Password comes from the SMTP-PASSWORD secret in staging/production
	Password string
	From     string
}

type ApiKeyConfig struct {
	SecretName string
	Value      string // Loaded from secrets or environment
}

type StorageConfig struct {
	// Mode selects the backend: "local", "azure", or "drive"
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	// DriveCredentialsFile is the path to a Google service account JSON file
	DriveCredentialsFile string
	// DriveFolderID is the default Drive folder reports are uploaded to
	DriveFolderID string
	// DriveBackgroundFolderID is the Drive folder used by background jobs
	// started from the web interface
	DriveBackgroundFolderID string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
	// StaticDir is the directory the front-end page is served from
	StaticDir string
}

// ReportConfig holds configuration for markdown-to-PDF conversion
type ReportConfig struct {
	// ConverterBinary is the document converter invoked for PDF output
	ConverterBinary string
	// ConvertTimeout is the timeout for a single conversion (seconds)
	ConvertTimeout int
	// TempDir is where intermediate markdown and PDF files are written.
	// Empty means the OS temp directory.
	TempDir string
}

// JobsConfig holds configuration for background research jobs
type JobsConfig struct {
	// Workers is the number of concurrent background research workers
	Workers int
	// QueueSize is the capacity of the pending job queue
	QueueSize int
	// ResearchTimeout bounds a single background research run (seconds)
	ResearchTimeout int
}

// CacheConfig holds configuration for the vendor response cache
type CacheConfig struct {
	// Enabled controls whether vendor responses are cached in the database
	Enabled bool
	// TTL is how long a cached vendor response stays valid (seconds)
	TTL int
	// CleanupCron is the cron expression for the purge job
	CleanupCron string
	// CleanupEnabled controls whether the purge job is scheduled
	CleanupEnabled bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins []string
	// AllowedMethods is a list of allowed HTTP methods
	AllowedMethods []string
	// AllowedHeaders is a list of allowed request headers
	AllowedHeaders []string
	// ExposedHeaders is a list of headers exposed to the client
	ExposedHeaders []string
	// AllowCredentials indicates whether credentials are allowed
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	// EnableHSTS enables HTTP Strict Transport Security header
	EnableHSTS bool
	// HSTSMaxAge is the max age for HSTS in seconds (default: 31536000 = 1 year)
	HSTSMaxAge int
	// HSTSIncludeSubdomains includes subdomains in HSTS
	HSTSIncludeSubdomains bool
	// HSTSPreload enables HSTS preload
	HSTSPreload bool
	// ContentSecurityPolicy sets the Content-Security-Policy header
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions string
	// ContentTypeNosniff enables X-Content-Type-Options: nosniff
	ContentTypeNosniff bool
	// XSSProtection sets the X-XSS-Protection header
	XSSProtection string
	// ReferrerPolicy sets the Referrer-Policy header
	ReferrerPolicy string
	// PermissionsPolicy sets the Permissions-Policy header
	PermissionsPolicy string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Enabled enables rate limiting
	Enabled bool
	// RequestsPerMinute is the rate limit per client IP
	RequestsPerMinute int
	// BurstSize is the maximum burst size allowed
	BurstSize int
	// WhitelistIPs is a list of IPs that bypass rate limiting
	WhitelistIPs []string
	// WhitelistPaths is a list of paths that bypass rate limiting (e.g., /health)
	WhitelistPaths []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TimeoutDuration returns the per-request timeout as duration
func (c *CoreSignalConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// TimeoutDuration returns the per-request timeout as duration
func (a *ApolloConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// TimeoutDuration returns the per-request timeout as duration
func (t *TavilyConfig) TimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

// TimeoutDuration returns the per-call timeout as duration
func (l *LLMConfig) TimeoutDuration() time.Duration {
	return time.Duration(l.Timeout) * time.Second
}

// ConvertTimeoutDuration returns the conversion timeout as duration
func (r *ReportConfig) ConvertTimeoutDuration() time.Duration {
	return time.Duration(r.ConvertTimeout) * time.Second
}

// ResearchTimeoutDuration returns the background research timeout as duration
func (j *JobsConfig) ResearchTimeoutDuration() time.Duration {
	return time.Duration(j.ResearchTimeout) * time.Second
}

// TTLDuration returns the vendor cache TTL as duration
func (c *CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Vendor keys from conventional environment variable names if not in config
	if cfg.CoreSignal.APIKey == "" {
		cfg.CoreSignal.APIKey = v.GetString("CORESIGNAL_API_KEY")
	}
	if cfg.Apollo.APIKey == "" {
		cfg.Apollo.APIKey = v.GetString("APOLLO_API_KEY")
	}
	if cfg.Tavily.APIKey == "" {
		cfg.Tavily.APIKey = v.GetString("TAVILY_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v.GetString("GEMINI_API_KEY")
	}

	// Email credentials from environment if not in config
	if cfg.Email.Username == "" {
		cfg.Email.Username = v.GetString("EMAIL_USER")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = v.GetString("EMAIL_PASSWORD")
	}
	if cfg.Email.From == "" {
		cfg.Email.From = v.GetString("FROM_EMAIL")
	}
	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.Username
	}

	// Drive folder IDs from environment if not in config
	if cfg.Storage.DriveFolderID == "" {
		cfg.Storage.DriveFolderID = v.GetString("GOOGLE_DRIVE_FOLDER_ID")
	}
	if cfg.Storage.DriveBackgroundFolderID == "" {
		cfg.Storage.DriveBackgroundFolderID = v.GetString("GOOGLE_DRIVE_INTERFACE_FOLDER_ID")
	}

	// Load API key from environment if not in config
	if cfg.ApiKey.Value == "" {
		cfg.ApiKey.Value = v.GetString("ADMIN_API_KEY")
	}

	// Load Azure Key Vault name from environment if not in config
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source
// In development (or when secrets.source = "environment"), secrets come from env vars
// In staging/production (or when secrets.source = "vault"), secrets come from Azure Key Vault
//
// Key Vault is used when BOTH conditions are met:
// 1. USE_AZURE_KEY_VAULT environment variable is set to "true"
// 2. Environment is "staging" or "production"
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	// First load basic config
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	// Check if Azure Key Vault should be used for main secrets
	// Requires both USE_AZURE_KEY_VAULT=true AND environment is staging/production
	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
			zap.Bool("use_key_vault", useKeyVault),
		)
		return cfg, nil
	}

	// Validate Key Vault name is provided
	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	if !provider.IsVaultEnabled() {
		return nil, fmt.Errorf("vault provider not enabled despite USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Loading secrets from Azure Key Vault")

	// Database secrets from Key Vault
	// Host, User, Password come from vault; Port and Database name are environment-specific
	if host, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if defaultDB := os.Getenv("DEFAULT_DATABASE"); defaultDB != "" {
		cfg.Database.Name = defaultDB
	}
	if user, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	// Vendor API keys
	if key, err := provider.GetSecretOrEnv(ctx, "CORESIGNAL-API-KEY", "CORESIGNAL_API_KEY"); err == nil && key != "" {
		cfg.CoreSignal.APIKey = key
	}
	if key, err := provider.GetSecretOrEnv(ctx, "APOLLO-API-KEY", "APOLLO_API_KEY"); err == nil && key != "" {
		cfg.Apollo.APIKey = key
	}
	if key, err := provider.GetSecretOrEnv(ctx, "TAVILY-API-KEY", "TAVILY_API_KEY"); err == nil && key != "" {
		cfg.Tavily.APIKey = key
	}
	if key, err := provider.GetSecretOrEnv(ctx, "GEMINI-API-KEY", "GEMINI_API_KEY"); err == nil && key != "" {
		cfg.LLM.APIKey = key
	}

	// SMTP password
	if password, err := provider.GetSecretOrEnv(ctx, "SMTP-PASSWORD", "EMAIL_PASSWORD"); err == nil && password != "" {
		cfg.Email.Password = password
	}

	// API Key
	if apiKey, err := provider.GetSecretOrEnv(ctx, "admin-api-key", "ADMIN_API_KEY"); err == nil && apiKey != "" {
		cfg.ApiKey.Value = apiKey
	}

	// Storage connection string (for azure storage mode)
	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "CompanyIntel Research API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "research")
	v.SetDefault("database.user", "research_user")
	v.SetDefault("database.password", "research_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	// Vendor defaults
	v.SetDefault("coresignal.baseURL", "https://api.coresignal.com")
	v.SetDefault("coresignal.timeout", 60)
	v.SetDefault("coresignal.maxRetries", 3)
	v.SetDefault("coresignal.requestsPerSecond", 2)
	v.SetDefault("apollo.baseURL", "https://api.apollo.io/api/v1")
	v.SetDefault("apollo.timeout", 30)
	v.SetDefault("apollo.maxRetries", 3)
	v.SetDefault("apollo.requestsPerSecond", 2)
	v.SetDefault("tavily.baseURL", "https://api.tavily.com")
	v.SetDefault("tavily.timeout", 60)
	v.SetDefault("tavily.maxRetries", 3)
	v.SetDefault("tavily.requestsPerSecond", 1)

	// LLM defaults
	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.model", "gemini-2.5-pro")
	v.SetDefault("llm.timeout", 300)

	// Email defaults
	v.SetDefault("email.smtpHost", "smtp.gmail.com")
	v.SetDefault("email.smtpPort", 587)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300) // 5 minutes

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.driveCredentialsFile", "service_account.json")

	// Report defaults
	v.SetDefault("report.converterBinary", "pandoc")
	v.SetDefault("report.convertTimeout", 120)

	// Jobs defaults
	v.SetDefault("jobs.workers", 2)
	v.SetDefault("jobs.queueSize", 32)
	v.SetDefault("jobs.researchTimeout", 600) // background research can take minutes

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 86400) // 24 hours
	v.SetDefault("cache.cleanupCron", "0 0 */6 * * *")
	v.SetDefault("cache.cleanupEnabled", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 600) // synchronous research responses are slow
	v.SetDefault("server.requestTimeout", 600)
	v.SetDefault("server.enableSwagger", true)
	v.SetDefault("server.staticDir", "./web/static")

	// CORS defaults - restrictive by default
	// In development, you may want to override with specific origins
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID", "X-Storage-Upload-Error", "Content-Disposition"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300) // 5 minutes

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false)    // Disabled by default, enable in production with HTTPS
	v.SetDefault("security.hstsMaxAge", 31536000) // 1 year
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.burstSize", 10)
	v.SetDefault("rateLimit.whitelistIPs", []string{})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/ready"})
}
