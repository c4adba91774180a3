package model

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single turn in a chat. An ordered sequence of messages
// forms a transcript.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// StreamEvent is one frame of a streaming chat response. It is a wire-only
// type: events are never persisted. Exactly one of the three shapes is
// populated per frame:
//
//   - content delta: Content set, Error false
//   - stream error:  Error true, Message and Code set
//   - terminal:      Done true (serialized as the literal [DONE] sentinel)
type StreamEvent struct {
	Content string `json:"content,omitempty"`
	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Done    bool   `json:"-"`
}
