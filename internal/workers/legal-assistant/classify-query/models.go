package classifyquery

type Input struct {
	Query     string `json:"query"`
	Language  string `json:"language,omitempty"`
	UserID    string `json:"userId,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

type Output struct {
	Response         string   `json:"response"`
	Confidence       float64  `json:"confidence"`
	SuggestedActions []string `json:"suggestedActions"`
	RelatedSections  []string `json:"relatedSections"`
	EntryID          string   `json:"entryId,omitempty"`
	Fallback         bool     `json:"fallback"`
	Language         string   `json:"language"`
	ChatID           string   `json:"chatId,omitempty"`
}

const inputSchema = `{
	"type": "object",
	"properties": {
		"query":     {"type": "string"},
		"language":  {"type": "string"},
		"userId":    {"type": "string"},
		"ipAddress": {"type": "string"},
		"userAgent": {"type": "string"}
	}
}`
