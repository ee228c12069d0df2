package domain

// IDGenerator produces identifiers for things that do not have one yet.
type IDGenerator[T comparable] func() T
