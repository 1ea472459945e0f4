package clock

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Accepted override layouts, in the clock's local calendar.
const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
)

// resetKeywords clear the override instead of setting one.
var resetKeywords = map[string]bool{
	"now":   true,
	"agora": true,
}

// ErrClockFormat is returned for override strings in no accepted layout.
var ErrClockFormat = errors.New("clock format error")

// FormatError describes a rejected override string.
type FormatError struct {
	Input string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q must be DD/MM/YYYY or DD/MM/YYYY HH:MM", ErrClockFormat, e.Input)
}

// Is makes errors.Is(err, ErrClockFormat) match.
func (e *FormatError) Is(target error) bool {
	return target == ErrClockFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsResetKeyword reports whether s asks for real time.
func IsResetKeyword(s string) bool {
	return resetKeywords[strings.ToLower(strings.TrimSpace(s))]
}

// ParseIn interprets s as a local calendar date or date-time in loc and
// returns the matching UTC instant.
func ParseIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	var layout string
	switch len(s) {
	case len(DateLayout):
		layout = DateLayout
	case len(DateTimeLayout):
		layout = DateTimeLayout
	default:
		return time.Time{}, &FormatError{Input: s}
	}

	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, &FormatError{Input: s, Err: err}
	}
	return t.UTC(), nil
}

// Apply is the override entry point for CLI and test layers.
//
// A reset keyword ("now" or "agora") clears the override and returns the
// current real time. Otherwise s is parsed with ParseIn in the clock's
// location and becomes the override. On a FormatError the clock is left
// exactly as it was.
func (c *Clock) Apply(s string) (time.Time, error) {
	if IsResetKeyword(s) {
		c.ClearOverride()
		return c.Now(), nil
	}

	t, err := ParseIn(s, c.Location())
	if err != nil {
		return time.Time{}, err
	}
	c.Override(t)
	return t, nil
}
