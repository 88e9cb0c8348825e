package suggestipcsections

import "time"

type Config struct {
	Timeout time.Duration
	// TopN bounds topSections in the output.
	TopN int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		TopN:    3,
	}
}
