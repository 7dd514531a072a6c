package chats

// Message is a single role-tagged message. It is a value type that copies
// cheaply; formatting and transport never mutate a message in place.
type Message struct {
	Role    Role
	Content string
}

// NewMessage creates a message with an arbitrary role.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: System, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: User, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: Assistant, Content: content}
}
