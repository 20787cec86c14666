package config

import "time"

type RedisConfig struct {
	// Enabled selects Redis as the session token store. When false tokens
	// live in memory for the lifetime of the process.
	Enabled   bool
	DB        int
	Url       string
	Password  string
	Namespace string
	TokenTTL  time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:   getEnv("TOKEN_STORE", "redis") == "redis",
		DB:        getIntEnv("REDIS_DB", 0),
		Url:       getEnv("REDIS_ADDR", "localhost:6379"),
		Password:  getEnv("REDIS_PASSWORD", ""),
		Namespace: getEnv("TOKEN_STORE_NAMESPACE", "default"),
		TokenTTL:  time.Duration(getIntEnv("TOKEN_TTL_HOURS", 24*30)) * time.Hour,
	}
}
