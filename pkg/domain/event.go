package domain

// Event is something that already happened and is announced to interested handlers.
type Event[T any] interface {
	EventName() string
	Payload() T
}
