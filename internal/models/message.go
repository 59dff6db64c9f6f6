package models

type Sender int

const (
	User Sender = iota
	Assistant
)

func (s Sender) String() string {
	switch s {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	}
	return "unknown"
}

// Message is a single entry of the chat thread. Messages are never edited
// or removed once appended.
type Message struct {
	ID     int
	Text   string
	Sender Sender
}
