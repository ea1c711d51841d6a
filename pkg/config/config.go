package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// WhatsApp provider names accepted by WHATSAPP_PROVIDER
const (
	WhatsAppProviderWPPConnect = "wppconnect"
	WhatsAppProviderCloud      = "cloud"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	AdminPassword    string
	LogLevel         string
	CORSOrigins      []string

	WhatsAppProvider string

	// Session gateway (WPPConnect server)
	WPPConnectURL     string
	WPPConnectSecret  string
	WPPConnectSession string
	WPPConnectDemoQR  bool

	// WhatsApp Business Cloud API
	WhatsAppAPIToken      string
	WhatsAppPhoneNumberID string
	WhatsAppAPIURL        string
	WhatsAppVerifyToken   string

	PolicyCheckInterval time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "corretora.db"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour), // 7 days
		AdminPassword:    getEnv("ADMIN_PASSWORD", "admin123"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      getList("CORS_ORIGINS", []string{"*"}),

		WhatsAppProvider: strings.ToLower(getEnv("WHATSAPP_PROVIDER", WhatsAppProviderWPPConnect)),

		WPPConnectURL:     getEnv("WPPCONNECT_URL", "http://localhost:21465"),
		WPPConnectSecret:  getEnv("WPPCONNECT_SECRET", ""),
		WPPConnectSession: getEnv("WPPCONNECT_SESSION", "corretora"),
		WPPConnectDemoQR:  getBool("WPPCONNECT_DEMO_QR", false),

		WhatsAppAPIToken:      getEnv("WHATSAPP_API_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAPIURL:        getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),

		PolicyCheckInterval: getDuration("POLICY_CHECK_INTERVAL", time.Hour),
	}
}

// UsesPostgres reports whether DatabaseURL points at a postgres server
// rather than a local sqlite file.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://") ||
		strings.Contains(c.DatabaseURL, "host=")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
