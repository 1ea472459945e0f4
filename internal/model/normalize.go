package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText puts free text into NFC form and trims surrounding whitespace.
//
// Question, answer and learner text is normalized before it is stored so that
// visually identical strings compare equal regardless of input method.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// NFC puts learner input into NFC form and leaves it otherwise untouched.
// Answers typed during review are stored this way, whitespace included.
func NFC(s string) string {
	return norm.NFC.String(s)
}
