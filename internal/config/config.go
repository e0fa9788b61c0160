package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Payment   PaymentConfig
	SMS       SMSConfig
	Mail      MailConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuing parameters. Access and refresh tokens
// use separate secrets so one kind can never validate as the other.
type AuthConfig struct {
	AccessSecret          string
	RefreshSecret         string
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int
	AdminMobiles          []string
}

// RateLimitConfig bounds OTP and token-refresh traffic per caller.
type RateLimitConfig struct {
	OtpLimit             int
	OtpWindowMinutes     int
	RefreshLimit         int
	RefreshWindowSeconds int
}

// PaymentConfig holds gateway credentials and the HMAC signing secret.
type PaymentConfig struct {
	KeyID          string
	KeySecret      string
	BaseURL        string
	Currency       string
	TimeoutSeconds int
}

// SMSConfig selects and configures the OTP provider.
type SMSConfig struct {
	Provider       string // "msg91" or "dev"
	AuthKey        string
	TemplateID     string
	BaseURL        string
	TimeoutSeconds int
	OtpLength      int
	OtpTTLMinutes  int
	MaxAttempts    int
	BcryptCost     int
}

// MailConfig configures the best-effort SMTP mailer. An empty Host
// disables outbound mail.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "marketplace-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AccessSecret:          getEnv("AUTH_ACCESS_SECRET", "dev-access-secret"),
			RefreshSecret:         getEnv("AUTH_REFRESH_SECRET", "dev-refresh-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 15),
			RefreshTokenTTLDays:   getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_DAYS", 30),
			AdminMobiles:          getEnvAsList("AUTH_ADMIN_MOBILES"),
		},
		RateLimit: RateLimitConfig{
			OtpLimit:             getEnvAsInt("RATE_LIMIT_OTP_MAX", 3),
			OtpWindowMinutes:     getEnvAsInt("RATE_LIMIT_OTP_WINDOW_MINUTES", 10),
			RefreshLimit:         getEnvAsInt("RATE_LIMIT_REFRESH_MAX", 10),
			RefreshWindowSeconds: getEnvAsInt("RATE_LIMIT_REFRESH_WINDOW_SECONDS", 60),
		},
		Payment: PaymentConfig{
			KeyID:          os.Getenv("PAYMENT_KEY_ID"),
			KeySecret:      os.Getenv("PAYMENT_KEY_SECRET"),
			BaseURL:        getEnv("PAYMENT_BASE_URL", "https://api.razorpay.com"),
			Currency:       getEnv("PAYMENT_CURRENCY", "INR"),
			TimeoutSeconds: getEnvAsInt("PAYMENT_TIMEOUT_SECONDS", 10),
		},
		SMS: SMSConfig{
			Provider:       getEnv("SMS_PROVIDER", "dev"),
			AuthKey:        os.Getenv("SMS_AUTH_KEY"),
			TemplateID:     os.Getenv("SMS_TEMPLATE_ID"),
			BaseURL:        getEnv("SMS_BASE_URL", "https://api.msg91.com"),
			TimeoutSeconds: getEnvAsInt("SMS_TIMEOUT_SECONDS", 10),
			OtpLength:      getEnvAsInt("SMS_OTP_LENGTH", 6),
			OtpTTLMinutes:  getEnvAsInt("SMS_OTP_TTL_MINUTES", 5),
			MaxAttempts:    getEnvAsInt("SMS_OTP_MAX_ATTEMPTS", 3),
			BcryptCost:     getEnvAsInt("SMS_OTP_BCRYPT_COST", 10),
		},
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     getEnvAsInt("MAIL_PORT", 587),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     getEnv("MAIL_FROM", "noreply@example.com"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// OtpWindow returns the OTP rate-limit window duration.
func (r RateLimitConfig) OtpWindow() time.Duration {
	return time.Duration(r.OtpWindowMinutes) * time.Minute
}

// RefreshWindow returns the refresh rate-limit window duration.
func (r RateLimitConfig) RefreshWindow() time.Duration {
	return time.Duration(r.RefreshWindowSeconds) * time.Second
}

// Timeout returns the gateway HTTP client timeout.
func (p PaymentConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// OtpTTL returns how long an issued code stays valid.
func (s SMSConfig) OtpTTL() time.Duration {
	return time.Duration(s.OtpTTLMinutes) * time.Minute
}

// Timeout returns the SMS HTTP client timeout.
func (s SMSConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
