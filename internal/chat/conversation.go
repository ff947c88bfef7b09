// Package chat contains the conversation controller: classify the input,
// resolve it to a ticker, look up the price, and append both sides of the
// exchange to the transcript.
package chat

import (
	"time"

	"github.com/fleveque/stock-chat/internal/model"
)

// Conversation is an append-only, strictly ordered message log. It is owned
// by the caller (a CLI loop or an HTTP session) and passed into the service
// explicitly — no ambient global state.
//
// Invariant: messages are never mutated or removed once appended.
type Conversation struct {
	messages []model.Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a message to the end of the transcript, stamped with the
// current time. Order of appends is submission order.
func (c *Conversation) Append(role model.Role, content string) {
	c.messages = append(c.messages, model.Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// Messages returns a copy of the transcript. Returning a copy keeps the
// append-only invariant intact — callers can't reorder or edit history
// through the returned slice.
func (c *Conversation) Messages() []model.Message {
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (c *Conversation) Len() int {
	return len(c.messages)
}
