package getchathistory

import "legal-workers/internal/store"

type Input struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit,omitempty"`
}

type Output struct {
	History []store.ChatLog `json:"history"`
	Count   int             `json:"count"`
}

const inputSchema = `{
  "type": "object",
  "required": ["userId"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "limit": {"type": "integer", "minimum": 0}
  }
}`
