package searchfirs

import "legal-workers/internal/search"

type Input struct {
	ActorID   string `json:"actorId"`
	Text      string `json:"text,omitempty"`
	Status    string `json:"status,omitempty"`
	CrimeType string `json:"crimeType,omitempty"`
	Section   string `json:"section,omitempty"`
	UserID    string `json:"userId,omitempty"`
	From      int    `json:"from,omitempty"`
	Size      int    `json:"size,omitempty"`
}

type Output struct {
	Total    int64             `json:"total"`
	MaxScore float64           `json:"maxScore"`
	Took     int64             `json:"took"`
	FIRs     []search.Document `json:"firs"`
	From     int               `json:"from"`
	Size     int               `json:"size"`
}

const inputSchema = `{
  "type": "object",
  "required": ["actorId"],
  "properties": {
    "actorId": {"type": "string", "minLength": 1},
    "text": {"type": "string", "maxLength": 500},
    "from": {"type": "integer", "minimum": 0},
    "size": {"type": "integer", "minimum": 0}
  }
}`
