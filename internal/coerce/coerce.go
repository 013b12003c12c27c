// Package coerce turns raw environment strings into typed values according to
// a variable's declared type.
package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"envtypes/internal/schema"
)

// ErrInvalidValue is returned when a raw value cannot be read as the declared type.
var ErrInvalidValue = errors.New("invalid value")

// InvalidValueError carries the reason a value was rejected.
// It matches ErrInvalidValue with errors.Is.
type InvalidValueError struct {
	Reason string
}

func (e *InvalidValueError) Error() string {
	return e.Reason
}

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func invalid(format string, args ...any) error {
	return &InvalidValueError{Reason: fmt.Sprintf(format, args...)}
}

// truthy holds the lower-cased values read as true. Everything else is false.
var truthy = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"y":    true,
	"on":   true,
}

// Parse converts raw into the value described by def.
//
// The result is a string for string, enum and url variables, a float64 for
// number and duration (seconds) variables, a bool for boolean variables and
// the decoded JSON structure for json variables. Unknown types pass raw through.
func Parse(raw string, def schema.VariableDefinition) (any, error) {
	switch def.Type {
	case schema.TypeString:
		return raw, nil
	case schema.TypeNumber:
		return parseNumber(raw)
	case schema.TypeBoolean:
		return ParseBool(raw), nil
	case schema.TypeEnum:
		return parseEnum(raw, def.Enum)
	case schema.TypeURL:
		return parseURL(raw)
	case schema.TypeDuration:
		return parseNumber(strings.TrimSuffix(raw, "s"))
	case schema.TypeJSON:
		return parseJSON(raw)
	}
	return raw, nil
}

// ParseBool reports whether raw is one of the accepted truthy spellings.
// Unrecognized input is false, not an error.
func ParseBool(raw string) bool {
	return truthy[strings.ToLower(raw)]
}

// parseNumber reads a decimal floating-point literal. Surrounding whitespace
// is ignored, digits may be grouped with single underscores, and magnitudes
// beyond float64 become ±Inf. Hexadecimal literals are rejected.
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if hasHexPrefix(s) || !validUnderscores(s) {
		return 0, invalid("could not convert '%s' to a number", raw)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 0, invalid("could not convert '%s' to a number", raw)
		}
	}
	return f, nil
}

func hasHexPrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// validUnderscores reports whether every underscore in s sits between two digits.
func validUnderscores(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseEnum(raw string, allowed []string) (string, error) {
	for _, v := range allowed {
		if v == raw {
			return raw, nil
		}
	}
	return "", invalid("Value '%s' not allowed; expected one of %s.", raw, FormatAllowed(allowed))
}

func parseURL(raw string) (string, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}
	return "", invalid("URL must start with http:// or https://")
}

func parseJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, invalid("invalid JSON: %v", err)
	}
	return v, nil
}

// FormatAllowed renders an enum value list the way error messages show it.
func FormatAllowed(allowed []string) string {
	quoted := make([]string, len(allowed))
	for i, v := range allowed {
		quoted[i] = "'" + v + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
