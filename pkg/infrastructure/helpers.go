package infrastructure

import (
	"github.com/google/uuid"
)

// GenerateUUID satisfies domain.IDGenerator[string].
func GenerateUUID() string {
	return uuid.New().String()
}
