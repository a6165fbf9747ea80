// Package chat holds the conversation model shared by every LLM provider and
// the formatters that turn a conversation into a provider's request shape.
package chat

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Role identifies the speaker of a message.
type Role int

const (
	User Role = iota + 1
	Assistant
	System
)

// String returns the role name ("User", "Assistant", "System").
func (r Role) String() string {
	switch r {
	case User:
		return "User"
	case Assistant:
		return "Assistant"
	case System:
		return "System"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Label returns the canonical lowercase wire label of the role, or "" for an
// unknown role.
func (r Role) Label() string {
	switch r {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	case System:
		return "system"
	default:
		return ""
	}
}

// ParseRole returns the role whose Label is label.
func ParseRole(label string) (Role, error) {
	for _, r := range []Role{User, Assistant, System} {
		if r.Label() == label {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedRole, label)
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= User && r <= System
}

// Message is a single role-tagged entry in a conversation.
type Message struct {
	Text string
	Role Role
}

// NewMessage returns a message with the given text and role.
func NewMessage(text string, role Role) Message {
	return Message{Text: text, Role: role}
}

// UserMessage returns a message spoken by the user.
func UserMessage(text string) Message { return Message{Text: text, Role: User} }

// AssistantMessage returns a message spoken by the model.
func AssistantMessage(text string) Message { return Message{Text: text, Role: Assistant} }

// SystemMessage returns a model-facing instruction message.
func SystemMessage(text string) Message { return Message{Text: text, Role: System} }

func (m Message) String() string {
	return fmt.Sprintf("<Role: %s, Text: %s>", m.Role, m.Text)
}

// Conversation is an ordered, append-only log of messages. The zero value is
// an empty conversation ready to use. A Conversation is owned by one session
// and must not be appended to concurrently.
type Conversation struct {
	messages []Message
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(m Message) {
	c.messages = append(c.messages, m)
}

// History returns the messages in insertion order. The sequence can be
// ranged over any number of times; each traversal sees the messages that were
// present when it started.
func (c *Conversation) History() iter.Seq[Message] {
	return func(yield func(Message) bool) {
		if c == nil {
			return
		}
		snapshot := c.messages[:len(c.messages):len(c.messages)]
		for _, m := range snapshot {
			if !yield(m) {
				return
			}
		}
	}
}

// Messages returns a copy of the messages in insertion order.
func (c *Conversation) Messages() []Message {
	if c == nil {
		return nil
	}
	return slices.Clone(c.messages)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

func (c *Conversation) String() string {
	lines := make([]string, 0, c.Len())
	for m := range c.History() {
		lines = append(lines, fmt.Sprintf("Role: %s\tContent: %s", m.Role, m.Text))
	}
	return strings.Join(lines, "\n")
}
