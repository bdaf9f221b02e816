// internal/utils/helpers.go
// General utility functions

package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID, used only for request
// correlation — never for player, match, or round identity.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateRequestID generates a unique request ID for tracing.
func GenerateRequestID() string {
	return fmt.Sprintf("req_%s", GenerateUUID())
}
