package schema

import "fmt"

// IssueKind classifies a schema problem.
type IssueKind string

const (
	IssueDuplicateName   IssueKind = "duplicate_name"
	IssueUnsupportedType IssueKind = "unsupported_type"
	IssueEmptyEnum       IssueKind = "empty_enum"
	IssueRequiredDefault IssueKind = "required_with_default"
	IssueNoTargets       IssueKind = "no_targets"
)

// Issue represents a single schema violation
type Issue struct {
	Kind     IssueKind
	Env      string // empty for config-level issues
	Variable string
	Type     VarType // for unsupported type issues
}

// String formats the issue as a human-readable message.
func (i Issue) String() string {
	switch i.Kind {
	case IssueDuplicateName:
		return fmt.Sprintf("[%s] variable '%s' is declared more than once.", i.Env, i.Variable)
	case IssueUnsupportedType:
		return fmt.Sprintf("[%s] variable '%s' uses unsupported type '%s'.", i.Env, i.Variable, i.Type)
	case IssueEmptyEnum:
		return fmt.Sprintf("[%s] variable '%s' is enum but enum values are empty.", i.Env, i.Variable)
	case IssueRequiredDefault:
		return fmt.Sprintf("[%s] variable '%s' is marked required but also provides a default; choose one.", i.Env, i.Variable)
	case IssueNoTargets:
		return "At least one generation target must be defined."
	}
	return fmt.Sprintf("[%s] variable '%s': %s", i.Env, i.Variable, i.Kind)
}

// Check collects every schema violation in cfg.
// It never stops at the first problem.
func Check(cfg Config) []Issue {
	var issues []Issue

	for _, env := range cfg.Environments {
		seen := make(map[string]bool, len(env.Variables))
		for _, v := range env.Variables {
			if seen[v.Name] {
				issues = append(issues, Issue{Kind: IssueDuplicateName, Env: env.Name, Variable: v.Name})
			}
			seen[v.Name] = true
			issues = append(issues, checkVariable(env.Name, v)...)
		}
	}

	if len(cfg.Targets) == 0 {
		issues = append(issues, Issue{Kind: IssueNoTargets})
	}

	return issues
}

func checkVariable(env string, v VariableDefinition) []Issue {
	var issues []Issue
	if !v.Type.Valid() {
		issues = append(issues, Issue{Kind: IssueUnsupportedType, Env: env, Variable: v.Name, Type: v.Type})
	}
	if v.Type == TypeEnum && len(v.Enum) == 0 {
		issues = append(issues, Issue{Kind: IssueEmptyEnum, Env: env, Variable: v.Name})
	}
	if v.HasDefault() && v.Required {
		issues = append(issues, Issue{Kind: IssueRequiredDefault, Env: env, Variable: v.Name})
	}
	return issues
}

// ValidateSchema checks cfg and returns whether it is valid along with all error messages.
func ValidateSchema(cfg Config) (bool, []string) {
	issues := Check(cfg)
	errs := make([]string, len(issues))
	for i, issue := range issues {
		errs[i] = issue.String()
	}
	return len(errs) == 0, errs
}
