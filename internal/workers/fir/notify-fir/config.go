package notifyfir

import (
	"time"

	"legal-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
}

func LoadConfig(n config.NotificationConfig) *Config {
	return &Config{
		Timeout:      20 * time.Second,
		EmailEnabled: n.Email.Enabled,
		SMSEnabled:   n.SMS.Enabled,
	}
}
