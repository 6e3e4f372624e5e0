package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	TrustedProxies []string
	AllowedOrigins []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeout  time.Duration

	JWTSecret        string
	JWTRefreshSecret string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	PaystackSecretKey string
	PaystackBaseURL   string

	// Commission policy: PackagePrice is the starter package cost (NGN),
	// CommissionRates[i] is the payout fraction at level i+1. Rates must be
	// strictly decreasing; levels beyond the table pay nothing.
	PackagePrice    float64
	CommissionRates []float64

	AdminEmail    string
	AdminPassword string
	AdminPhone    string
	InitialPins   int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TrustedProxies: []string{},
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "brightorion"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBTimeout:  getEnvAsDuration("DB_TIMEOUT", 5*time.Second),

		JWTSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
		JWTAccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),

		PackagePrice: getEnvAsFloat("PACKAGE_PRICE", 36000),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@brightorian.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminPhone:    getEnv("ADMIN_PHONE", "+2348000000000"),
		InitialPins:   getEnvAsInt("INITIAL_PINS", 100),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		cfg.TrustedProxies = strings.Split(proxies, ",")
	}

	rates, err := parseRates(getEnv("COMMISSION_RATES", "0.10,0.05,0.03,0.02,0.01"))
	if err != nil {
		return nil, err
	}
	cfg.CommissionRates = rates

	// Release deployments must supply real secrets; only dev mode gets
	// fallbacks.
	if cfg.Env == "release" {
		if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
			return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required in release mode")
		}
		if cfg.PaystackSecretKey == "" {
			return nil, fmt.Errorf("PAYSTACK_SECRET_KEY is required in release mode")
		}
		if cfg.AdminPassword == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD is required in release mode")
		}
	} else {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = "dev-access-secret"
		}
		if cfg.JWTRefreshSecret == "" {
			cfg.JWTRefreshSecret = "dev-refresh-secret"
		}
		if cfg.AdminPassword == "" {
			cfg.AdminPassword = "Admin123!"
		}
	}

	log.Printf("📋 Config loaded: port=%s mode=%s db=%s levels=%d",
		cfg.Port, cfg.Env, cfg.DBName, len(cfg.CommissionRates))
	return cfg, nil
}

// MaxLevel is the deepest sponsor-chain level that earns a commission.
func (c *Config) MaxLevel() int {
	return len(c.CommissionRates)
}

// Rate returns the payout fraction for a level, zero beyond the table.
func (c *Config) Rate(level int) float64 {
	if level < 1 || level > len(c.CommissionRates) {
		return 0
	}
	return c.CommissionRates[level-1]
}

func parseRates(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	rates := make([]float64, 0, len(parts))
	prev := 1.0
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("COMMISSION_RATES[%d]: %w", i, err)
		}
		if v <= 0 || v >= prev {
			return nil, fmt.Errorf("COMMISSION_RATES must be strictly decreasing and positive, got %q", raw)
		}
		rates = append(rates, v)
		prev = v
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("COMMISSION_RATES is empty")
	}
	return rates, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if val, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if val, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if val, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	val := getEnv(key, "")
	if val == "" {
		return defaultValue
	}
	parts := strings.Split(val, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
