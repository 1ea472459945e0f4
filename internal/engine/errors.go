package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/memento/internal/clock"
	"github.com/roach88/memento/internal/model"
	"github.com/roach88/memento/internal/store"
)

// Error kinds surfaced by the engine. Each is matchable with errors.Is.
var (
	ErrInvalidGrade = model.ErrInvalidGrade
	ErrUnknownItem  = store.ErrUnknownItem
	ErrClockFormat  = clock.ErrClockFormat
	ErrPersistence  = store.ErrPersistence

	// ErrStopSession may be returned by a GradeSource to end a session
	// early. RunSession treats it as a normal end, not a failure.
	ErrStopSession = errors.New("session stopped")
)

// ErrorCode is a stable identifier for an error kind.
type ErrorCode string

const (
	CodeInvalidGrade ErrorCode = "INVALID_GRADE"
	CodeUnknownItem  ErrorCode = "UNKNOWN_ITEM"
	CodeClockFormat  ErrorCode = "CLOCK_FORMAT"
	CodePersistence  ErrorCode = "PERSISTENCE_FAILURE"
	CodeInternal     ErrorCode = "INTERNAL"
)

// Code classifies err into one of the stable error codes.
// Uses errors.Is to handle wrapped errors.
func Code(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrInvalidGrade):
		return CodeInvalidGrade
	case errors.Is(err, ErrUnknownItem):
		return CodeUnknownItem
	case errors.Is(err, ErrClockFormat):
		return CodeClockFormat
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	default:
		return CodeInternal
	}
}

// InvalidGradeError reports a grade that could not be normalized to 1-4.
// The item it belongs to was skipped and nothing was written.
type InvalidGradeError struct {
	ItemID int64
	Input  string
	Err    error
}

func (e *InvalidGradeError) Error() string {
	return fmt.Sprintf("item %d: %v", e.ItemID, e.Err)
}

func (e *InvalidGradeError) Unwrap() error {
	return e.Err
}

// IsInvalidGrade returns true if err is an invalid grade error.
func IsInvalidGrade(err error) bool {
	return errors.Is(err, ErrInvalidGrade)
}

// IsUnknownItem returns true if err reports an unknown or foreign item.
func IsUnknownItem(err error) bool {
	return errors.Is(err, ErrUnknownItem)
}

// IsPersistence returns true if err is a persistence failure.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

func notDue(itemID int64) error {
	return fmt.Errorf("%w: item %d is not due", ErrUnknownItem, itemID)
}

func notOwned(itemID int64, ownerID string) error {
	return fmt.Errorf("%w: item %d does not belong to %q", ErrUnknownItem, itemID, ownerID)
}
