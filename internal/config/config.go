package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret    string
	TokenTTLDays int

	RecaptchaSecret   string
	RecaptchaMinScore float64

	AllowedOrigins []string

	BGGUsername string
	BGGToken    string
	BGGCacheTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3Bucket     string
	MediaBaseURL string

	AdminEmail    string
	AdminPassword string
	AdminName     string
	AdminRole     string

	OTLPEndpoint string

	LoginRateLimit  int
	LoginRateWindow time.Duration

	MaxBodyBytes int64
}

func Load() Config {
	// .env is for local dev only; a missing file is fine.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)

	return Config{
		Env:   env,
		Port:  port,
		DBURL: buildDBURL(),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		TokenTTLDays: getEnvInt("TOKEN_TTL_DAYS", 7),

		RecaptchaSecret:   getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaMinScore: getEnvFloat("RECAPTCHA_MIN_SCORE", 0.5),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),

		BGGUsername: getEnv("BGG_USERNAME", "jujunior"),
		BGGToken:    getEnv("BGG_TOKEN", ""),
		BGGCacheTTL: time.Duration(getEnvInt("BGG_CACHE_TTL_MINUTES", 60)) * time.Minute,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		S3Region:     getEnv("S3_REGION", ""),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", ""),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Junior"),
		AdminRole:     getEnv("ADMIN_ROLE", "admin"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: time.Duration(getEnvInt("LOGIN_RATE_WINDOW_SECONDS", 60)) * time.Second,

		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}
}

// Validate enforces the start-up preconditions. Without a database URL or a
// token-signing secret the process cannot serve anything useful, so it must
// not come up at all.
func (c Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("config: database URL is not set (DATABASE_URL or DB_* variables)")
	}

	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is not set")
	}

	return nil
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "")
	if host == "" {
		return ""
	}

	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "juniorsworld")
	pass := getEnv("DB_PASSWORD", "juniorsworld")
	name := getEnv("DB_NAME", "juniorsworld")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.ParseFloat(v, 64)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
