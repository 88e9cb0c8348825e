package portalstats

import "time"

type Config struct {
	Timeout      time.Duration
	CacheKey     string
	CacheTTL     time.Duration
	AuditLimit   int
	MaxAuditRows int
}

func LoadConfig(statsTTLSeconds, auditLimit int) *Config {
	return &Config{
		Timeout:      10 * time.Second,
		CacheKey:     "legal:portal:stats",
		CacheTTL:     time.Duration(statsTTLSeconds) * time.Second,
		AuditLimit:   auditLimit,
		MaxAuditRows: 1000,
	}
}
