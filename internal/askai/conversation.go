/*
Package askai defines conversations and the question-answering
collaborator that free-form messages are delegated to.

The collaborator is any OpenAI-compatible chat-completions endpoint.
*/
package askai

import "fmt"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultSystemPrompt is prepended when a conversation has no system message.
const DefaultSystemPrompt = "You are a helpful assistant that answers student questions clearly and concisely. " +
	"When responding, first restate what the user just asked (e.g. 'You asked: ...'), then provide the answer."

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// Conversation is an ordered list of messages, oldest first.
type Conversation []Message

// Last returns the final message.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// Validate rejects unknown roles.
func (c Conversation) Validate() error {
	for i, m := range c {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
	}
	return nil
}

// WithSystemPrompt returns c with prompt prepended unless c already starts
// with a system message. c is not modified.
func WithSystemPrompt(c Conversation, prompt string) Conversation {
	if len(c) > 0 && c[0].Role == RoleSystem {
		return c
	}
	out := make(Conversation, 0, len(c)+1)
	out = append(out, Message{Role: RoleSystem, Content: prompt})
	return append(out, c...)
}
