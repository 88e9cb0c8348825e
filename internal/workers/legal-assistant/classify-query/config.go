package classifyquery

import "time"

type Config struct {
	Timeout time.Duration
	// PersistChats stores a chat log and audit entry for queries that carry a userId.
	PersistChats bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		PersistChats: true,
	}
}
