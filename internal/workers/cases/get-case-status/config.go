package getcasestatus

import (
	"time"

	"legal-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Case    config.CaseConfig
}

func LoadConfig(defaults config.CaseConfig) *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Case:    defaults,
	}
}
