package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	AllowedOrigin string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisCartTTL  int // seconds, 0 = keep forever
	CartFile      string

	KafkaBrokers []string
	KafkaTopic   string

	SessionSecret     string
	SessionTTLMinutes int
	MaxLiveSessions   int

	LogLevel string
}

// Load reads configuration from environment variables, with an optional .env
// file picked up from the working directory.
func Load() (Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ALLOWED_ORIGIN", "http://127.0.0.1:3000")
	viper.SetDefault("REDIS_DB", "0")
	viper.SetDefault("REDIS_CART_TTL_SECONDS", "0")
	viper.SetDefault("KAFKA_TOPIC", "cart.events")
	viper.SetDefault("SESSION_TTL_MINUTES", "480")
	viper.SetDefault("MAX_LIVE_SESSIONS", "4096")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:              getEnvOrViper("PORT", "8080"),
		AllowedOrigin:     getEnvOrViper("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:       getEnvOrViper("DATABASE_URL", ""),
		RedisAddr:         getEnvOrViper("REDIS_ADDR", ""),
		RedisPassword:     getEnvOrViper("REDIS_PASSWORD", ""),
		RedisDB:           positiveOrZero(viper.GetInt("REDIS_DB")),
		RedisCartTTL:      positiveOrZero(viper.GetInt("REDIS_CART_TTL_SECONDS")),
		CartFile:          getEnvOrViper("CART_FILE", ""),
		KafkaBrokers:      splitCSV(getEnvOrViper("KAFKA_BROKERS", "")),
		KafkaTopic:        getEnvOrViper("KAFKA_TOPIC", "cart.events"),
		SessionSecret:     strings.TrimSpace(getEnvOrViper("SESSION_SECRET", "")),
		SessionTTLMinutes: positiveOr(viper.GetInt("SESSION_TTL_MINUTES"), 480),
		MaxLiveSessions:   positiveOr(viper.GetInt("MAX_LIVE_SESSIONS"), 4096),
		LogLevel:          getEnvOrViper("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnvOrViper(key string, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		if val := viper.GetString(key); val != "" {
			return val
		}
	}
	return fallback
}

func positiveOr(value int, fallback int) int {
	if value < 1 {
		return fallback
	}
	return value
}

func positiveOrZero(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
