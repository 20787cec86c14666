package config

import (
	"os"
	"time"
)

const (
	DefaultHintCost    = 5
	DefaultAwardPoints = 10
)

type SolverConfig struct {
	HintCost            int
	DefaultAward        int
	RunTimeout          time.Duration
	HintTimeout         time.Duration
	SkipAwardWhenSolved bool
}

func NewSolverConfig() *SolverConfig {
	cfg := &SolverConfig{
		HintCost:            getIntEnv("HINT_COST", DefaultHintCost),
		DefaultAward:        getIntEnv("DEFAULT_AWARD", DefaultAwardPoints),
		RunTimeout:          getSecondsEnv("RUN_TIMEOUT_SEC", 30),
		HintTimeout:         getSecondsEnv("HINT_TIMEOUT_SEC", 30),
		SkipAwardWhenSolved: os.Getenv("SKIP_AWARD_WHEN_SOLVED") == "true",
	}
	if cfg.HintCost < 0 {
		cfg.HintCost = DefaultHintCost
	}
	if cfg.DefaultAward <= 0 {
		cfg.DefaultAward = DefaultAwardPoints
	}
	return cfg
}
