package portalstats

import (
	"time"

	"legal-workers/internal/store"
)

type Input struct {
	ActorID      string `json:"actorId"`
	IncludeAudit bool   `json:"includeAudit,omitempty"`
	AuditLimit   int    `json:"auditLimit,omitempty"`
	// Refresh bypasses the cached counts.
	Refresh bool `json:"refresh,omitempty"`
}

type Output struct {
	Stats       store.Stats      `json:"stats"`
	Cached      bool             `json:"cached"`
	AuditLogs   []store.AuditLog `json:"auditLogs,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

type cachedStats struct {
	Stats       store.Stats `json:"stats"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

const inputSchema = `{
  "type": "object",
  "required": ["actorId"],
  "properties": {
    "actorId": {"type": "string", "minLength": 1},
    "auditLimit": {"type": "integer", "minimum": 0}
  }
}`
