// Package model defines the core types of the memento review engine.
//
// This package contains type definitions and their closed enumerations only.
// All other internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - All instants are UTC once they leave this package's constructors
//   - Rating and State are closed enumerations; unmapped codes are errors
//   - A HistoryEntry is immutable: there is no type here that models an edit
//   - All JSON tags use snake_case
package model
