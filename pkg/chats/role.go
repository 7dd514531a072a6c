// Package chats defines the role-tagged message model shared by the prompt
// and llm packages.
package chats

// Role identifies the sender of a message in a conversation.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
	Tool      Role = "tool"
)

// Valid reports whether r is one of the well-known roles. Custom roles are
// still legal in a Message; providers map them to their closest equivalent.
func (r Role) Valid() bool {
	switch r {
	case System, User, Assistant, Tool:
		return true
	}
	return false
}

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}
