// Package config builds runtime configuration from environment variables so
// main stays lean. Every value has a development default; production
// deployments override via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Addr string
	// PublicBaseURL is the externally reachable API address, embedded in
	// verification links in outgoing mail.
	PublicBaseURL string
	MigrationsDir string

	JWTSigningKey   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// AdminEmailDomain and AdminWorkerIDs drive admin classification at
	// registration time.
	AdminEmailDomain string
	AdminWorkerIDs   []string

	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig
	SMTP  SMTPConfig
	Media MediaConfig
}

// RedisConfig configures the token revocation store. An empty URL disables
// Redis and falls back to the in-memory revocation list.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the notification pipeline. Empty brokers disable
// publishing; outbox rows then wait until a publisher comes up.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// SMTPConfig configures the mail sender used by the notification consumer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MediaConfig configures the MinIO-backed media uploader.
type MediaConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is prepended to object keys to form the URLs stored on
	// image/video rows.
	PublicBaseURL string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:             getenv("IREPORTER_ADDR", ":8080"),
		PublicBaseURL:    getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		MigrationsDir:    getenv("MIGRATIONS_DIR", "migrations"),
		JWTSigningKey:    getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AccessTokenTTL:   getduration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  getduration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		AdminEmailDomain: getenv("ADMIN_EMAIL_DOMAIN", "organization.com"),
		AdminWorkerIDs:   getlist("ADMIN_WORKER_IDS", []string{"worker_id_1", "worker_id_2", "worker_id_3"}),
		PostgresDSN:      getenv("POSTGRES_DSN", ""),
		Redis: RedisConfig{
			URL:          getenv("REDIS_URL", ""),
			PoolSize:     getint("REDIS_POOL_SIZE", 10),
			MinIdleConns: getint("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getduration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getduration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getduration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       getlist("KAFKA_BROKERS", nil),
			Topic:         getenv("KAFKA_NOTIFICATIONS_TOPIC", "ireporter.notifications"),
			ConsumerGroup: getenv("KAFKA_CONSUMER_GROUP", "ireporter-mailer"),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "localhost"),
			Port:     getint("SMTP_PORT", 587),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM", "no-reply@ireporter.local"),
		},
		Media: MediaConfig{
			Endpoint:      getenv("MINIO_ENDPOINT", ""),
			AccessKey:     getenv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getenv("MINIO_SECRET_KEY", ""),
			Bucket:        getenv("MINIO_BUCKET", "ireporter-media"),
			UseSSL:        getenv("MINIO_USE_SSL", "") == "true",
			PublicBaseURL: getenv("MEDIA_PUBLIC_BASE_URL", ""),
		},
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getlist(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
