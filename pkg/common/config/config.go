package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers  []string
	KafkaGroupID  string
	DocumentTopic string
	ResultTopic   string

	// NLP pipeline
	ModelDir            string
	TermsPath           string
	ClassifierRulesPath string
	ResultCacheTTL      time.Duration
	AuditEnabled        bool
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 4*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "xear"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "xear123"),
		PostgresDB:       getEnv("POSTGRES_DB", "xear_nlp"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "xear-nlp"),
		DocumentTopic: getEnv("NLP_DOCUMENT_TOPIC", "document-events"),
		ResultTopic:   getEnv("NLP_RESULT_TOPIC", "nlp-results"),

		ModelDir:            getEnv("NLP_MODEL_DIR", ""),
		TermsPath:           getEnv("NLP_TERMS_PATH", ""),
		ClassifierRulesPath: getEnv("NLP_CLASSIFIER_RULES_PATH", ""),
		ResultCacheTTL:      getDuration("NLP_RESULT_CACHE_TTL", 0),
		AuditEnabled:        getBoolEnv("NLP_AUDIT_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
