package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeAccountCreated    EventType = "Account.Created"
	EventTypeTransferCompleted EventType = "Transfer.Completed"
)

func (t EventType) String() string { return string(t) }
