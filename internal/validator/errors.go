package validator

import (
	"fmt"
)

// Error implements the error interface with the message shown to users.
func (e ValidationError) Error() string {
	switch e.Kind {
	case KindMissing:
		return fmt.Sprintf("[%s] missing required variable '%s'", e.Env, e.Name)
	case KindInvalid:
		return fmt.Sprintf("[%s] variable '%s' invalid: %s", e.Env, e.Name, e.Reason)
	case KindExtra:
		return fmt.Sprintf("[%s] extra variable '%s' present", e.Env, e.Name)
	default:
		return fmt.Sprintf("[%s] variable '%s': %s", e.Env, e.Name, e.Kind)
	}
}

// FormatError returns the message for a single failure.
func FormatError(e ValidationError) string {
	return e.Error()
}

// FormatErrors returns one message per failure, in result order.
// A valid result yields an empty, non-nil slice.
func FormatErrors(result ValidationResult) []string {
	out := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		out = append(out, e.Error())
	}
	return out
}
