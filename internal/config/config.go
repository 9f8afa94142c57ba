package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once at startup from the environment.
type Config struct {
	HTTPPort            string
	MongoURI            string
	MongoDBName         string
	MongoConnectTimeout time.Duration
	MongoSelectTimeout  time.Duration
	MongoMaxPoolSize    uint64
	MongoMinPoolSize    uint64
	RedisAddr           string
	RedisPassword       string
	ProductBaseURL      string
	UserBaseURL         string
	ClientTimeout       time.Duration
	KafkaBrokers        []string
	KafkaTopic          string
	EventsEnabled       bool
	CacheEnabled        bool
}

func Load() Config {
	return Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:         getEnv("MONGO_DB_NAME", "orderdb"),
		MongoConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		MongoSelectTimeout:  getEnvDuration("MONGO_SELECT_TIMEOUT", 5*time.Second),
		MongoMaxPoolSize:    getEnvUint("MONGO_MAX_POOL_SIZE", 100),
		MongoMinPoolSize:    getEnvUint("MONGO_MIN_POOL_SIZE", 10),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		ProductBaseURL:      getEnv("PRODUCT_SERVICE_URL", "http://localhost:8081"),
		UserBaseURL:         getEnv("USER_SERVICE_URL", "http://localhost:8082"),
		ClientTimeout:       getEnvDuration("CLIENT_TIMEOUT", 5*time.Second),
		KafkaBrokers:        strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:          getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		EventsEnabled:       getEnvBool("EVENTS_ENABLED", false),
		CacheEnabled:        getEnvBool("CACHE_ENABLED", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
