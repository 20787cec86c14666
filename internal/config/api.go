package config

import (
	"strings"
	"time"
)

type ApiConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewApiConfig() *ApiConfig {
	return &ApiConfig{
		BaseURL: strings.TrimSuffix(getEnv("API_BASE_URL", "http://localhost:8082"), "/"),
		Timeout: getSecondsEnv("API_TIMEOUT_SEC", 30),
	}
}
