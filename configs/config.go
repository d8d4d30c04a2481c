package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MongoURI string
	MongoDB  string

	RedisHost string
	RedisPort string
	RedisPass string

	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	// Pagination policy applied to every listing endpoint.
	DefaultPageSize int
	MaxPageSize     int

	// Cache TTLs. Listing caches rely on these exclusively; only the
	// single-post cache is invalidated eagerly.
	FeedCacheTTL     time.Duration
	TrendingCacheTTL time.Duration
	PostCacheTTL     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", ":8083"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "newsfeed"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		KafkaBrokers: getEnv("KAFKA_BOOTSTRAP_SERVERS", "kafka:9092"),
		KafkaTopic:   getEnv("POST_EVENTS_TOPIC", "post.events"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "newsfeed-service"),

		DefaultPageSize: atoiDef(os.Getenv("FEED_DEFAULT_PAGE_SIZE"), 20),
		MaxPageSize:     atoiDef(os.Getenv("FEED_MAX_PAGE_SIZE"), 100),

		FeedCacheTTL:     secondsDef(os.Getenv("FEED_CACHE_TTL_SECONDS"), 60),
		TrendingCacheTTL: secondsDef(os.Getenv("TRENDING_CACHE_TTL_SECONDS"), 300),
		PostCacheTTL:     secondsDef(os.Getenv("POST_CACHE_TTL_SECONDS"), 300),
	}
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func atoiDef(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func secondsDef(s string, def int) time.Duration {
	return time.Duration(atoiDef(s, def)) * time.Second
}
