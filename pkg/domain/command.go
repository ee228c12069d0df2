package domain

// Command is a named intent that changes state somewhere; its payload carries
// everything a handler needs to carry it out.
type Command[T any] interface {
	CommandName() string
	Payload() T
}
