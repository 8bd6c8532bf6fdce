package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an id or key that does not resolve to a record.
type NotFoundError struct {
	Resource string
	Key      any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// lookupError converts a store "record not found" into a NotFoundError and
// wraps anything else with context.
func lookupError(resource string, key any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("failed to load %s %v: %w", resource, key, err)
}
