package chat

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrUnsupportedRole is returned when a formatter meets a message whose role
// it cannot serialize.
var ErrUnsupportedRole = errors.New("unsupported role")

// RawMarkers is the pair of turn markers used by single-prompt completion APIs.
type RawMarkers struct {
	Human     string
	Assistant string
}

// AnthropicMarkers are the turn markers of Anthropic's text completions API.
var AnthropicMarkers = RawMarkers{
	Human:     "\n\nHuman",
	Assistant: "\n\nAssistant",
}

// FormatRaw concatenates the history into one completion prompt. Every user
// message is written as "{Human}: {text} {Assistant}:"; assistant and system
// messages are appended verbatim.
func FormatRaw(markers RawMarkers, history iter.Seq[Message]) (string, error) {
	var b strings.Builder
	i := 0
	for m := range history {
		switch m.Role {
		case User:
			fmt.Fprintf(&b, "%s: %s %s:", markers.Human, m.Text, markers.Assistant)
		case Assistant, System:
			b.WriteString(m.Text)
		default:
			return "", fmt.Errorf("message %d: %w: %s", i, ErrUnsupportedRole, m.Role)
		}
		i++
	}
	return b.String(), nil
}

// StructuredMessage is one record of a chat-completion message list.
type StructuredMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RoleLabels maps roles to a provider's lowercase role labels. A role absent
// from the map cannot be sent to that provider.
type RoleLabels map[Role]string

// OpenAILabels are the role labels of OpenAI-compatible chat completions.
var OpenAILabels = RoleLabels{
	User:      "user",
	Assistant: "assistant",
	System:    "system",
}

// GeminiLabels are the role labels of Gemini content turns. Gemini carries
// system text outside the turn list, so System has no label.
var GeminiLabels = RoleLabels{
	User:      "user",
	Assistant: "model",
}

// FormatStructured maps every message to one {role, content} record in
// order. The result is never nil.
func FormatStructured(labels RoleLabels, history iter.Seq[Message]) ([]StructuredMessage, error) {
	out := []StructuredMessage{}
	for m := range history {
		label, ok := labels[m.Role]
		if !ok || !m.Role.Valid() {
			return nil, fmt.Errorf("message %d: %w: %s", len(out), ErrUnsupportedRole, m.Role)
		}
		out = append(out, StructuredMessage{Role: label, Content: m.Text})
	}
	return out, nil
}
