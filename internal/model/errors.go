package model

import "errors"

// Sentinel errors for the model package.
// Use errors.Is to check: errors.Is(err, model.ErrInvalidGrade)
var (
	ErrInvalidGrade = errors.New("invalid grade")
	ErrUnknownState = errors.New("unknown learning state")
)
