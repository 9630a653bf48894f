// Package basename defines .base.eth name validation, hashing and pricing.
package basename

import (
	"strings"

	"github.com/Strob0t/basenames/internal/domain"
)

// ParentDomain is the suffix every candidate is registered under.
const ParentDomain = "base.eth"

// MinLength is the shortest label the registrar accepts.
const MinLength = 3

// Validation failure reasons reported to callers.
const (
	ReasonTooShort          = "too short"
	ReasonInvalidCharacters = "invalid characters"
)

// CandidateName is a validated, lowercase label (without the .base.eth suffix).
type CandidateName string

// String returns the bare label.
func (n CandidateName) String() string { return string(n) }

// FullName returns the label joined with the parent domain, e.g. "alice.base.eth".
func (n CandidateName) FullName() string { return string(n) + "." + ParentDomain }

// Len returns the label length in characters.
func (n CandidateName) Len() int { return len([]rune(n)) }

// NameError reports why raw input was rejected. It matches domain.ErrValidation.
type NameError struct {
	Reason string
}

func (e *NameError) Error() string { return e.Reason }

// Unwrap lets errors.Is(err, domain.ErrValidation) match.
func (e *NameError) Unwrap() error { return domain.ErrValidation }

// Validate turns raw user input into a CandidateName.
// Input is trimmed and ASCII case-folded; it is rejected, never sanitized.
// Characters are checked before folding, so non-ASCII letters that lowercase
// into the label alphabet are refused.
func Validate(raw string) (CandidateName, error) {
	name := strings.TrimSpace(raw)
	if len([]rune(name)) < MinLength {
		return "", &NameError{Reason: ReasonTooShort}
	}
	for _, r := range name {
		if !isLabelRune(r) && (r < 'A' || r > 'Z') {
			return "", &NameError{Reason: ReasonInvalidCharacters}
		}
	}
	return CandidateName(strings.ToLower(name)), nil
}

func isLabelRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}
