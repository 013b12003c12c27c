package drift

import (
	"sort"

	"envtypes/internal/schema"
)

// DriftType represents which side of the comparison is missing a variable.
type DriftType string

const (
	DriftMissingRight DriftType = "missing_right" // Declared in left but not right
	DriftMissingLeft  DriftType = "missing_left"  // Declared in right but not left
)

// NameDrift represents a single variable name declared on one side only.
type NameDrift struct {
	Name string    `json:"name"`
	Type DriftType `json:"type"`
}

// DriftReport contains the full drift analysis.
type DriftReport struct {
	HasDrift bool        `json:"hasDrift"`
	Left     string      `json:"left"`
	Right    string      `json:"right"`
	Changes  []NameDrift `json:"changes"`
}

// Detect compares the variable names declared in two environments.
// Only names are compared; type or required differences between same-named
// variables are not reported. Left-only names come first, then right-only
// names, each sorted.
func Detect(cfg schema.Config, left, right string) DriftReport {
	report := DriftReport{
		Left:    left,
		Right:   right,
		Changes: []NameDrift{},
	}

	leftEnv, _ := cfg.Environment(left)
	rightEnv, _ := cfg.Environment(right)
	leftNames := nameSet(leftEnv)
	rightNames := nameSet(rightEnv)

	for _, name := range difference(leftNames, rightNames) {
		report.Changes = append(report.Changes, NameDrift{Name: name, Type: DriftMissingRight})
	}
	for _, name := range difference(rightNames, leftNames) {
		report.Changes = append(report.Changes, NameDrift{Name: name, Type: DriftMissingLeft})
	}

	report.HasDrift = len(report.Changes) > 0
	return report
}

func nameSet(env schema.Environment) map[string]bool {
	names := make(map[string]bool, len(env.Variables))
	for _, v := range env.Variables {
		names[v.Name] = true
	}
	return names
}

// difference returns the sorted names in a that are not in b.
func difference(a, b map[string]bool) []string {
	var out []string
	for name := range a {
		if !b[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
