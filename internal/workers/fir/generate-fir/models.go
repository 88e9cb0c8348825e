package generatefir

import (
	"time"

	"legal-workers/internal/legal/ipc"
)

type Input struct {
	UserID       string   `json:"userId"`
	CrimeType    string   `json:"crimeType"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	IncidentDate string   `json:"incidentDate"`
	IncidentTime string   `json:"incidentTime,omitempty"`
	EvidenceURLs []string `json:"evidenceUrls,omitempty"`
	IPAddress    string   `json:"ipAddress,omitempty"`
	UserAgent    string   `json:"userAgent,omitempty"`
}

type Output struct {
	FIRID       string           `json:"firId"`
	FIRNumber   string           `json:"firNumber"`
	Status      string           `json:"status"`
	IPCSections []string         `json:"ipcSections"`
	Suggestions []ipc.Suggestion `json:"suggestions"`
	CaseID      string           `json:"caseId"`
	HearingDate *time.Time       `json:"hearingDate,omitempty"`
	Indexed     bool             `json:"indexed"`
	CreatedAt   time.Time        `json:"createdAt"`
}

const inputSchema = `{
  "type": "object",
  "required": ["userId", "crimeType", "description", "location", "incidentDate"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "crimeType": {"type": "string", "minLength": 1, "maxLength": 100},
    "description": {"type": "string", "minLength": 1, "maxLength": 10000},
    "location": {"type": "string", "minLength": 1, "maxLength": 500},
    "incidentDate": {"type": "string", "minLength": 10},
    "incidentTime": {"type": "string", "maxLength": 16},
    "evidenceUrls": {"type": "array", "items": {"type": "string"}},
    "ipAddress": {"type": "string"},
    "userAgent": {"type": "string"}
  }
}`
