package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"storefront-service/database"
	aws_pkg "storefront-service/pkg/aws"
	"storefront-service/pricing"

	"github.com/joho/godotenv"
)

const dbSecretName = "storefront/DB_CREDENTIALS"

// Config holds all configuration for the storefront service.
type Config struct {
	Port   string
	AppEnv string

	DB       database.Config
	RedisURL string
	CartTTL  time.Duration

	JWTSecret           string
	TrustGatewayHeaders bool
	TrustedProxies      []string
	ChannelSNSTopicARN  string
	Taxes               pricing.Settings

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
}

// LoadConfig reads configuration from the environment (and an optional .env
// file) with an optional Secrets Manager override for DB credentials.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := loadFromEnv()

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)
			if creds, err := sm.GetJSONSecret(context.Background(), dbSecretName); err == nil {
				cfg.applyDBSecret(creds)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		DB: database.Config{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
			MySQLDSN: os.Getenv("MYSQL_DSN"),
		},
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CartTTL:             getDuration("CART_TTL", 30*24*time.Hour),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TrustGatewayHeaders: getBool("TRUST_GATEWAY_HEADERS", false),
		TrustedProxies:      getList("TRUSTED_PROXIES", nil),
		ChannelSNSTopicARN:  os.Getenv("CHANNEL_SNS_TOPIC_ARN"),
		Taxes: pricing.Settings{
			IncludeTaxesInPrices: getBool("INCLUDE_TAXES_IN_PRICES", true),
			DisplayGrossPrices:   getBool("DISPLAY_GROSS_PRICES", true),
		},
		RateLimitRPS:        getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:      getInt("RATE_LIMIT_BURST", 20),
		CORSOrigins:         getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		CloudWatchEnabled:   getBool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/services"),
	}
}

func (c *Config) applyDBSecret(m map[string]string) {
	if v := m["POSTGRES_USER"]; v != "" {
		c.DB.User = v
	}
	if v := m["POSTGRES_PASSWORD"]; v != "" {
		c.DB.Password = v
	}
	if v := m["POSTGRES_DB"]; v != "" {
		c.DB.Name = v
	}
	if v := m["POSTGRES_HOST"]; v != "" {
		c.DB.Host = v
	}
	if v := m["POSTGRES_PORT"]; v != "" {
		c.DB.Port = v
	}
	if v := m["MYSQL_DSN"]; v != "" {
		c.DB.MySQLDSN = v
	}
}

// Validate checks that the selected database driver has what it needs.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres":
		if c.DB.User == "" || c.DB.Password == "" || c.DB.Name == "" || c.DB.Host == "" {
			return fmt.Errorf("database config incomplete")
		}
	case "mysql":
		if c.DB.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
