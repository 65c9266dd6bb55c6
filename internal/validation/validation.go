// Package validation checks identifiers received from outside the process
// before they reach the store or the runtime.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"whatsweb/internal/errors"
)

// MaxEntityIDLength bounds serialized ids accepted from HTTP callers.
const MaxEntityIDLength = 256

// ValidateEntityID checks a serialized id such as "31612345678@c.us" or
// "false_31612345678@c.us_3EB0A1B2C3".
func ValidateEntityID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewValidationError(field, id, "id cannot be empty")
	}
	if len(id) > MaxEntityIDLength {
		return errors.NewValidationError(field, id[:32]+"...",
			fmt.Sprintf("id too long (max %d characters)", MaxEntityIDLength))
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return errors.NewValidationError(field, id, "id contains invalid characters")
		}
	}
	return nil
}
