package generatefir

import (
	"time"

	"legal-workers/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	IPCSectionLimit int
	// NumberAttempts bounds retries when a concurrent filing takes the
	// same FIR number.
	NumberAttempts int
	Case           config.CaseConfig
}

func LoadConfig(legal config.LegalConfig) *Config {
	return &Config{
		Timeout:         15 * time.Second,
		IPCSectionLimit: legal.IPCSectionLimit,
		NumberAttempts:  3,
		Case:            legal.Case,
	}
}
