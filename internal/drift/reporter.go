package drift

import (
	"encoding/json"
	"fmt"
	"strings"

	"envtypes/internal/schema"
)

// FormatMessage formats a single drift entry.
func FormatMessage(report DriftReport, change NameDrift) string {
	switch change.Type {
	case DriftMissingRight:
		return fmt.Sprintf("Variable '%s' declared in %s but missing in %s.", change.Name, report.Left, report.Right)
	case DriftMissingLeft:
		return fmt.Sprintf("Variable '%s' declared in %s but missing in %s.", change.Name, report.Right, report.Left)
	}
	return fmt.Sprintf("Variable '%s': %s", change.Name, change.Type)
}

// FormatMessages formats every drift entry, in report order.
func FormatMessages(report DriftReport) []string {
	messages := make([]string, len(report.Changes))
	for i, change := range report.Changes {
		messages[i] = FormatMessage(report, change)
	}
	return messages
}

// Diff compares two environments by variable name and returns one message per difference.
// An empty slice means both environments declare the same names.
func Diff(cfg schema.Config, left, right string) []string {
	return FormatMessages(Detect(cfg, left, right))
}

// FormatCLI formats drift report for terminal output.
func FormatCLI(report DriftReport) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Environment drift between %s and %s:\n", report.Left, report.Right))

	for _, change := range report.Changes {
		switch change.Type {
		case DriftMissingRight:
			sb.WriteString(fmt.Sprintf("  - %s: only in %s\n", change.Name, report.Left))
		case DriftMissingLeft:
			sb.WriteString(fmt.Sprintf("  + %s: only in %s\n", change.Name, report.Right))
		}
	}

	return sb.String()
}

// FormatJSON formats drift report as JSON.
func FormatJSON(report DriftReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
