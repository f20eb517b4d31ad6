package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	IdP      IdPConfig
	Sinalite SinaliteConfig
	Loyalty  LoyaltyConfig
	Webhook  WebhookConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds first-party session token configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// IdPConfig holds hosted identity-provider configuration. An empty JWKSURL
// disables IdP token verification.
type IdPConfig struct {
	JWKSURL string
	Issuer  string
}

// SinaliteConfig holds upstream print-vendor API configuration
type SinaliteConfig struct {
	BaseURL       string
	AuthURL       string
	ClientID      string
	ClientSecret  string
	Audience      string
	Timeout       time.Duration
	PriceCacheTTL time.Duration
}

// LoyaltyConfig holds points program configuration
type LoyaltyConfig struct {
	// EarnRate is points earned per whole dollar of a paid order
	EarnRate int
	// RedeemRate is points per dollar of store credit
	RedeemRate int
	// SignupBonus is points granted on customer.created; 0 disables
	SignupBonus   int
	AuditInterval time.Duration
	AuditPageSize int
}

// WebhookConfig holds shared secrets for inbound storefront webhooks
type WebhookConfig struct {
	OrdersSecret    string
	CustomersSecret string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "printforge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		IdP: IdPConfig{
			JWKSURL: getEnv("IDP_JWKS_URL", ""),
			Issuer:  getEnv("IDP_ISSUER", ""),
		},
		Sinalite: SinaliteConfig{
			BaseURL:       getEnv("SINALITE_BASE_URL", "https://api.sinalite.com"),
			AuthURL:       getEnv("SINALITE_AUTH_URL", "https://api.sinalite.com/auth/token"),
			ClientID:      getEnv("SINALITE_CLIENT_ID", ""),
			ClientSecret:  getEnv("SINALITE_CLIENT_SECRET", ""),
			Audience:      getEnv("SINALITE_AUDIENCE", "https://apiconnect.sinalite.com"),
			Timeout:       getEnvAsDuration("SINALITE_TIMEOUT", 15*time.Second),
			PriceCacheTTL: getEnvAsDuration("SINALITE_PRICE_CACHE_TTL", 15*time.Minute),
		},
		Loyalty: LoyaltyConfig{
			EarnRate:      getEnvAsInt("LOYALTY_EARN_RATE", 1),
			RedeemRate:    getEnvAsInt("LOYALTY_REDEEM_RATE", 100),
			SignupBonus:   getEnvAsInt("LOYALTY_SIGNUP_BONUS", 0),
			AuditInterval: getEnvAsDuration("LOYALTY_AUDIT_INTERVAL", 10*time.Minute),
			AuditPageSize: getEnvAsInt("LOYALTY_AUDIT_PAGE_SIZE", 500),
		},
		Webhook: WebhookConfig{
			OrdersSecret:    getEnv("WEBHOOK_ORDERS_SECRET", ""),
			CustomersSecret: getEnv("WEBHOOK_CUSTOMERS_SECRET", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
