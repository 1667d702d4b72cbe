package models

// Chat roles used in conversation history sent to the assistant backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of a conversation session.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
