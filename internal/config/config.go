package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration. Credentials are always
// injected at process start; nothing here has a hardcoded secret.
type Config struct {
	HTTP  HTTPConfig
	Redis RedisConfig
	Kafka KafkaConfig
	Auth  AuthConfig
}

type HTTPConfig struct {
	Addr string
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AuthConfig carries the admin credential pair and the JWT signing
// secret for the management endpoints.
type AuthConfig struct {
	AdminUsername string
	AdminPassword string
	JWTSecret     string
}

// Load reads configuration from environment variables with sensible
// defaults. The JWT secret and admin credentials have no defaults and
// are required.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		},
		Auth: AuthConfig{
			AdminUsername: os.Getenv("ADMIN_USERNAME"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			JWTSecret:     os.Getenv("JWT_SECRET"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.Auth.AdminUsername == "" || cfg.Auth.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD environment variables are required")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
