package types

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ChatMessage is one entry in a session-scoped conversation. Order is a
// monotonic index within the conversation; it restarts at zero when the
// conversation is cleared on a city change.
type ChatMessage struct {
	ID        uuid.UUID   `json:"id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	Order     int         `json:"order"`
	CreatedAt time.Time   `json:"created_at"`
}

type ChatState string

const (
	ChatIdle             ChatState = "idle"
	ChatAwaitingResponse ChatState = "awaiting-response"
)
