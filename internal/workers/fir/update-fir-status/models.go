package updatefirstatus

import "time"

type Input struct {
	FIRID                string `json:"firId"`
	Status               string `json:"status"`
	ActorID              string `json:"actorId"`
	InvestigatingOfficer string `json:"investigatingOfficer,omitempty"`
	PoliceStation        string `json:"policeStation,omitempty"`
	IPAddress            string `json:"ipAddress,omitempty"`
	UserAgent            string `json:"userAgent,omitempty"`
}

type Output struct {
	FIRID                string    `json:"firId"`
	FIRNumber            string    `json:"firNumber"`
	OwnerID              string    `json:"ownerId"`
	Status               string    `json:"status"`
	InvestigatingOfficer string    `json:"investigatingOfficer,omitempty"`
	PoliceStation        string    `json:"policeStation,omitempty"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

const inputSchema = `{
  "type": "object",
  "required": ["firId", "status", "actorId"],
  "properties": {
    "firId": {"type": "string", "minLength": 1},
    "status": {"type": "string", "minLength": 1},
    "actorId": {"type": "string", "minLength": 1},
    "investigatingOfficer": {"type": "string", "maxLength": 200},
    "policeStation": {"type": "string", "maxLength": 200}
  }
}`
