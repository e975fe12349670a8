package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port          string
	DBConn        string
	LogLevel      string
	JWTSecret     string
	HMACSecret    string
	EncryptionKey string
	DemoLogin     bool

	RateFeedURL     string
	RateFeedPath    string
	LenderMargin    float64
	RateRefreshCron string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	PropertyData    string
	AssumptionsFile string
}

// NewConfig loads configuration from environment variables. An empty DB_CONN
// selects the in-memory store.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        getEnv("DB_CONN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		HMACSecret:    getEnv("HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		EncryptionKey: getEnv("ENCRYPTION_KEY", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),

		RateFeedURL:     getEnv("RATE_FEED_URL", "https://www.rba.gov.au/rss/rss-cb-cash-rate.xml"),
		RateFeedPath:    getEnv("RATE_FEED_PATH", "//item/statistics/rate/observation/value"),
		RateRefreshCron: getEnv("RATE_REFRESH_CRON", "0 6 * * *"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "reports@example.com"),

		PropertyData:    getEnv("PROPERTY_DATA", ""),
		AssumptionsFile: getEnv("ASSUMPTIONS_FILE", ""),
	}

	var err error
	if cfg.LenderMargin, err = strconv.ParseFloat(getEnv("LENDER_MARGIN", "0.025"), 64); err != nil {
		return nil, fmt.Errorf("LENDER_MARGIN: %w", err)
	}
	if !(cfg.LenderMargin >= 0 && cfg.LenderMargin < 1) {
		return nil, fmt.Errorf("LENDER_MARGIN must be a fraction in [0, 1), got %v", cfg.LenderMargin)
	}
	if cfg.DemoLogin, err = strconv.ParseBool(getEnv("DEMO_LOGIN", "false")); err != nil {
		return nil, fmt.Errorf("DEMO_LOGIN: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("HMAC_SECRET is required")
	}
	if cfg.EncryptionKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if _, err := cfg.EncryptionKeyBytes(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EncryptionKeyBytes decodes the hex ENCRYPTION_KEY into an AES key.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	}
	return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 16, 24 or 32 bytes, got %d", len(key))
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
