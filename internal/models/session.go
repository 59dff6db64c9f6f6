package models

// Status is the lifecycle position of a chat session.
type Status int

const (
	Uninitialized Status = iota
	AwaitingCredential
	Validating
	Ready
	AwaitingCompletion
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case AwaitingCredential:
		return "awaiting-credential"
	case Validating:
		return "validating"
	case Ready:
		return "ready"
	case AwaitingCompletion:
		return "awaiting-completion"
	}
	return "unknown"
}

// Snapshot is a read-only copy of the session state handed to the UI.
type Snapshot struct {
	Messages             []Message
	PendingInput         string
	IsValidatingKey      bool
	IsAwaitingCompletion bool
	SelectedModel        ModelID
	KeyDialogVisible     bool
	ModelSelectOpen      bool
	Status               Status
	HasSession           bool // a validated generation handle exists
}

// LastMessage returns the most recent message, if any.
func (s Snapshot) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

type NoticeKind int

const (
	NoticeLoading NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a transient status report shown to the user.
type Notice struct {
	Kind NoticeKind
	Text string
}
