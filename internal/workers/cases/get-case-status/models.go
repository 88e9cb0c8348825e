package getcasestatus

import "legal-workers/internal/legal/tracking"

type Input struct {
	UserID string `json:"userId"`
	CaseID string `json:"caseId,omitempty"`
}

// Output carries either the user's cases or, when caseId was given, the one
// matching case.
type Output struct {
	Cases []tracking.CaseView `json:"cases,omitempty"`
	Case  *tracking.CaseView  `json:"case,omitempty"`
	Count int                 `json:"count"`
}

const inputSchema = `{
  "type": "object",
  "required": ["userId"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "caseId": {"type": "string", "maxLength": 200}
  }
}`
