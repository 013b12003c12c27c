// Package naming converts environment variable names into identifiers for
// generated source code.
package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// initialisms are kept fully upper-case in Pascal case output.
var initialisms = map[string]bool{
	"API": true, "DB": true, "DNS": true, "HTTP": true, "HTTPS": true,
	"ID": true, "IP": true, "JSON": true, "JWT": true, "SQL": true,
	"SSH": true, "TCP": true, "TLS": true, "TTL": true, "UDP": true,
	"UI": true, "URI": true, "URL": true, "UUID": true, "XML": true,
}

// pythonKeywords cannot be used as attribute names.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// Words splits name on characters other than ASCII letters and digits, and on camelCase boundaries.
// e.g., "API_URL" -> ["API", "URL"], "logLevel" -> ["log", "Level"]
func Words(name string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		if !isASCIIAlnum(r) {
			flush()
			continue
		}
		if i > 0 && r >= 'A' && r <= 'Z' && len(current) > 0 {
			prev := runes[i-1]
			if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Pascal converts name to PascalCase, keeping common initialisms upper-case.
// e.g., "API_URL" -> "APIURL", "FEATURE_FLAG" -> "FeatureFlag"
func Pascal(name string) string {
	var sb strings.Builder
	for _, w := range Words(name) {
		upper := strings.ToUpper(w)
		if initialisms[upper] {
			sb.WriteString(upper)
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	return sb.String()
}

// ScreamingSnake converts name to SCREAMING_SNAKE_CASE.
// e.g., "logLevel" -> "LOG_LEVEL"
func ScreamingSnake(name string) string {
	words := Words(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}

// GoIdent returns an exported Go identifier for name.
// Names without letters or starting with a digit are prefixed with fallback.
func GoIdent(name, fallback string) string {
	id := Pascal(name)
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = fallback + id
	}
	return id
}

// IsJSIdent reports whether name can be used unquoted as a JavaScript property name.
func IsJSIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || (isASCIIAlnum(r) && !(r >= '0' && r <= '9')):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// PythonIdent returns a valid Python identifier for name.
// Valid identifiers are kept as-is; invalid characters become underscores.
func PythonIdent(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if isASCIIAlnum(r) || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	id := sb.String()
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "_" + id
	}
	if pythonKeywords[id] {
		id += "_"
	}
	return id
}

// Set hands out identifiers that do not collide with each other.
type Set struct {
	used map[string]bool
}

// NewSet returns a Set with the given identifiers already taken.
func NewSet(reserved ...string) *Set {
	s := &Set{used: make(map[string]bool, len(reserved))}
	for _, r := range reserved {
		s.used[r] = true
	}
	return s
}

// Claim returns id, or id with the smallest numeric suffix (starting at 2) that is still free.
func (s *Set) Claim(id string) string {
	candidate := id
	for n := 2; s.used[candidate]; n++ {
		candidate = id + strconv.Itoa(n)
	}
	s.used[candidate] = true
	return candidate
}
