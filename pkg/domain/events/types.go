package events

// Event is implemented by every domain event carried on the event bus.
type Event interface {
	Type() string
}

// EventTypes maps an event type to a constructor used when decoding events
// coming back from an external bus.
var EventTypes = map[string]func() Event{
	EventTypeAccountCreated.String():    func() Event { return &AccountCreated{} },
	EventTypeTransferCompleted.String(): func() Event { return &TransferCompleted{} },
}
