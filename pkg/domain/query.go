package domain

// Query is a named read request.
type Query[T any] interface {
	QueryName() string
	Payload() T
}
