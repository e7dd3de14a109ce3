package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	ConnectTTL time.Duration
}

// RedisConfig holds cache server settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// CacheConfig controls the read-through query cache.
type CacheConfig struct {
	// Backend is "redis", "memory" or "none".
	Backend  string
	Prefix   string
	TTL      time.Duration
	Capacity int
}

// SessionConfig controls redis-backed login sessions.
type SessionConfig struct {
	Prefix string
	TTL    time.Duration
}

// SMTPAccount is the credential set of one named mail transport.
type SMTPAccount struct {
	User     string
	Password string
	From     string
}

// MailConfig holds the outbound mail relay and its two named transports.
type MailConfig struct {
	Host    string
	Port    int
	NoReply SMTPAccount
	Support SMTPAccount
}

// AuthConfig holds token signing and OAuth client settings.
type AuthConfig struct {
	JWTSecret          string
	JWTIssuer          string
	JWTTTL             time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// SentryConfig holds exception monitoring settings. An empty DSN disables reporting.
type SentryConfig struct {
	DSN         string
	Environment string
	SampleRate  float64
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string
	UseSSL     bool
	// PresignTTL bounds the lifetime of export download links.
	PresignTTL time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	LogLevel string
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Session  SessionConfig
	Mail     MailConfig
	Auth     AuthConfig
	Sentry   SentryConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Database:   getEnv("MONGO_DATABASE", ""),
			ConnectTTL: getEnvSeconds("MONGO_CONNECT_TIMEOUT_SEC", 10),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Backend:  getEnv("CACHE_BACKEND", "redis"),
			Prefix:   getEnv("CACHE_PREFIX", "cache"),
			TTL:      getEnvSeconds("CACHE_TTL_SEC", 3600),
			Capacity: getEnvInt("CACHE_CAPACITY", 10000),
		},
		Session: SessionConfig{
			Prefix: getEnv("SESSION_PREFIX", "sess"),
			TTL:    getEnvSeconds("SESSION_TTL_SEC", 86400),
		},
		Mail: MailConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnvInt("SMTP_PORT", 587),
			NoReply: SMTPAccount{
				User:     getEnv("NOREPLY_SMTP_USER", ""),
				Password: getEnv("NOREPLY_SMTP_PASSWORD", ""),
				From:     getEnv("NOREPLY_SMTP_FROM", ""),
			},
			Support: SMTPAccount{
				User:     getEnv("SUPPORT_SMTP_USER", ""),
				Password: getEnv("SUPPORT_SMTP_PASSWORD", ""),
				From:     getEnv("SUPPORT_SMTP_FROM", ""),
			},
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			JWTIssuer:          getEnv("JWT_ISSUER", "bookingapi"),
			JWTTTL:             time.Duration(getEnvInt("JWT_TTL_MIN", 60)) * time.Minute,
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", ""),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			Bucket:     getEnv("MINIO_BUCKET", ""),
			Region:     getEnv("MINIO_REGION", ""),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			PresignTTL: getEnvSeconds("MINIO_PRESIGN_TTL_SEC", 900),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvSeconds reads an integer number of seconds.
func getEnvSeconds(key string, def int) time.Duration {
	return time.Duration(getEnvInt(key, def)) * time.Second
}
