package basename

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Strob0t/basenames/internal/domain"
)

// ZeroAddress is the owner the registry reports for unowned nodes.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// IsZeroAddress reports whether s is the zero address, ignoring case.
func IsZeroAddress(s string) bool {
	return strings.EqualFold(s, ZeroAddress)
}

// ValidateAddress returns a domain.ErrValidation-wrapped error for malformed addresses.
func ValidateAddress(field, s string) error {
	if s == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	if !IsAddress(s) {
		return fmt.Errorf("%w: %s must be a 0x-prefixed 20-byte hex address", domain.ErrValidation, field)
	}
	return nil
}
