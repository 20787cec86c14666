package config

import "os"

type AppConfig struct {
	DebugMode      bool
	ApiConfig      *ApiConfig
	AuthConfig     *AuthConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	SolverConfig   *SolverConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		ApiConfig:      NewApiConfig(),
		AuthConfig:     NewAuthConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		SolverConfig:   NewSolverConfig(),
	}
}
