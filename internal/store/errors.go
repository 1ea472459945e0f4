package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for the store package.
var (
	// ErrUnknownItem is returned when an item does not exist or belongs to
	// another owner.
	ErrUnknownItem = errors.New("unknown item")

	// ErrPersistence matches every *PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence failure")
)

// PersistenceError reports that the database could not serve a read or write.
// Entries committed before the failure are unaffected.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

// Is makes errors.Is(err, ErrPersistence) match.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func unknownItem(itemID int64) error {
	return fmt.Errorf("%w: %d", ErrUnknownItem, itemID)
}
