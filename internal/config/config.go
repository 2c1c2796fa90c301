package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minJWTSecretBytes = 32

// Config contains runtime configuration values.
type Config struct {
	Environment     string
	HTTPPort        string
	ServiceName     string
	ShutdownTimeout time.Duration
	TrustedProxies  []string

	DatabaseURL            string
	InstanceConnectionName string
	AutoMigrate            bool
	StoreTimeout           time.Duration
	SnowflakeNode          int64

	JWTSecret         string
	TokenTTL          time.Duration
	PasswordHasher    string
	BcryptCost        int
	PasswordMinLength int

	AdminEmail    string
	AdminPassword string
	AdminUsername string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	FunFactCacheTTL time.Duration

	GenAIProject        string
	GenAILocation       string
	GenAIModel          string
	GenAITimeout        time.Duration
	FunFactPromptFormat string

	RateLimitRPM         int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	TelemetrySampleRatio float64
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// DefaultFunFactPrompt asks for ten facts about a waste category in Indonesia.
const DefaultFunFactPrompt = "berikan 10 funfact tentang sampah %s di indonesia, dibungkus menjadi deskripsi"

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if strings.TrimSpace(secret) == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if len(secret) < minJWTSecretBytes {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretBytes)
	}

	cfg := Config{
		Environment:            getEnv("APP_ENV", "development"),
		HTTPPort:               getEnv("PORT", "3000"),
		ServiceName:            getEnv("SERVICE_NAME", "api-edutrash"),
		ShutdownTimeout:        getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		TrustedProxies:         getList("TRUSTED_PROXIES", nil),
		DatabaseURL:            databaseURL(),
		InstanceConnectionName: strings.TrimSpace(os.Getenv("INSTANCE_CONNECTION_NAME")),
		AutoMigrate:            getBool("AUTO_MIGRATE", true),
		StoreTimeout:           getDuration("STORE_TIMEOUT", 5*time.Second),
		SnowflakeNode:          int64(getInt("SNOWFLAKE_NODE", 1)),
		JWTSecret:              secret,
		TokenTTL:               getDuration("TOKEN_TTL", 30*24*time.Hour),
		PasswordHasher:         strings.ToLower(getEnv("PASSWORD_HASHER", "bcrypt")),
		BcryptCost:             getInt("BCRYPT_COST", 10),
		PasswordMinLength:      getInt("PASSWORD_MIN_LENGTH", 8),
		AdminEmail:             strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:          os.Getenv("ADMIN_PASSWORD"),
		AdminUsername:          getEnv("ADMIN_USERNAME", "admin"),
		RedisAddr:              strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getInt("REDIS_DB", 0),
		FunFactCacheTTL:        getDuration("FUNFACT_CACHE_TTL", time.Hour),
		GenAIProject:           strings.TrimSpace(os.Getenv("GENAI_PROJECT")),
		GenAILocation:          getEnv("GENAI_LOCATION", "us-central1"),
		GenAIModel:             strings.TrimSpace(os.Getenv("GENAI_MODEL")),
		GenAITimeout:           getDuration("GENAI_TIMEOUT", 60*time.Second),
		FunFactPromptFormat:    getEnv("FUNFACT_PROMPT", DefaultFunFactPrompt),
		RateLimitRPM:           getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:      getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		TelemetrySampleRatio:   getFloat("OTEL_TRACES_SAMPLER_RATIO", 1),
		CORSAllowedOrigins:     getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:     getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSAllowedHeaders:     getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials:   getBool("CORS_ALLOW_CREDENTIALS", false),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or PG_USER/PG_NAME is required")
	}
	switch cfg.PasswordHasher {
	case "bcrypt", "argon2id":
	default:
		return Config{}, fmt.Errorf("PASSWORD_HASHER must be bcrypt or argon2id")
	}
	if cfg.TelemetrySampleRatio < 0 || cfg.TelemetrySampleRatio > 1 {
		return Config{}, fmt.Errorf("OTEL_TRACES_SAMPLER_RATIO must be between 0 and 1")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	if cfg.PasswordMinLength < 1 {
		cfg.PasswordMinLength = 1
	}
	if cfg.GenAIModel == "" && cfg.GenAIProject != "" {
		cfg.GenAIModel = "gemini-2.0-flash"
	}
	if strings.Count(cfg.FunFactPromptFormat, "%s") != 1 {
		return Config{}, fmt.Errorf("FUNFACT_PROMPT must contain exactly one %%s")
	}

	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to discrete PG_* settings.
func databaseURL() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	user := strings.TrimSpace(os.Getenv("PG_USER"))
	name := strings.TrimSpace(os.Getenv("PG_NAME"))
	if user == "" || name == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, os.Getenv("PG_PASSWORD")),
		Host:     getEnv("PG_HOST", "127.0.0.1") + ":" + getEnv("PG_PORT", "5432"),
		Path:     "/" + name,
		RawQuery: "sslmode=" + getEnv("PG_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
