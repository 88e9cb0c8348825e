package notifyfir

const (
	EventCreated       = "created"
	EventStatusChanged = "status_changed"

	DeliverySent     = "sent"
	DeliverySkipped  = "skipped"
	DeliveryDisabled = "disabled"
)

type Input struct {
	FIRID string `json:"firId"`
	Event string `json:"event"`
}

type Delivery struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type Output struct {
	FIRID     string   `json:"firId"`
	FIRNumber string   `json:"firNumber"`
	Email     Delivery `json:"email"`
	SMS       Delivery `json:"sms"`
}

const inputSchema = `{
  "type": "object",
  "required": ["firId", "event"],
  "properties": {
    "firId": {"type": "string", "minLength": 1},
    "event": {"type": "string", "enum": ["created", "status_changed"]}
  }
}`
