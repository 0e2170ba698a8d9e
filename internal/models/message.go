// Package models contains the data types shared by the chat client.
package models

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is a single chat bubble. It is never modified after creation.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// UserMessage creates a message authored by the user
func UserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// AIMessage creates a message authored by the assistant
func AIMessage(text string) Message {
	return Message{Text: text, Sender: SenderAI}
}

// IsUser reports whether the message was sent by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Label returns the short author label shown under a bubble
func (m Message) Label() string {
	if m.IsUser() {
		return "You"
	}
	return "AI"
}
