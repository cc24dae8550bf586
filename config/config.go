package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	Database   DatabaseConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Storage    StorageConfig
	Events     EventsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// AuthConfig carries the token-signing settings. The secret is loaded
// once at startup and never changes for the lifetime of the process.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig selects the poster object-storage backend.
// Backend is one of "minio", "gcs", or empty to disable posters.
type StorageConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	ProjectID       string
	Bucket          string
	CredentialsFile string
}

// EventsConfig selects the domain-event broker.
// Backend is one of "rabbitmq", "pubsub", or empty to disable events.
type EventsConfig struct {
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "myflix"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "myflix_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	authConfig := AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
	}

	corsConfig := CORSConfig{
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	storageConfig := StorageConfig{
		Backend: getEnv("STORAGE_BACKEND", ""),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "myflix-posters"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			Bucket:          getEnv("GCS_BUCKET", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}

	eventsConfig := EventsConfig{
		Backend: getEnv("EVENTS_BACKEND", ""),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH_COUNT", 0),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		Database:   dbConfig,
		Auth:       authConfig,
		CORS:       corsConfig,
		Storage:    storageConfig,
		Events:     eventsConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(valueStr)) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}
