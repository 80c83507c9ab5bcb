package override

import (
	"strings"

	"github.com/cockroachdb/errors"
)

type enum interface {
	~int
	String() string
}

// parseEnum looks a rule-file name up among the values first..last.
func parseEnum[T enum](kind, s string, last T) (T, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	for v := T(0); v <= last; v++ {
		if v.String() == name {
			return v, nil
		}
	}

	var zero T

	return zero, errors.Newf("unknown %s %q", kind, s)
}

var overrideTypeAliases = map[string]OverrideType{
	"exact_match": MatchExact,
	"regex_match": MatchRegex,
	"fuzzy_match": MatchFuzzy,
}

// ParseOverrideType parses names like "exact", "regex_match" or "fuzzy".
func ParseOverrideType(s string) (OverrideType, error) {
	if t, ok := overrideTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}

	return parseEnum("override type", s, MatchWordBoundary)
}

// ParseConditionType parses a condition type name such as "header_content".
func ParseConditionType(s string) (ConditionType, error) {
	return parseEnum("condition type", s, ConditionFileSize)
}

// ParseOperator parses an operator name such as "not_contains".
func ParseOperator(s string) (Operator, error) {
	return parseEnum("operator", s, OpLessOrEqual)
}

// ParseStrategy parses a strategy name such as "most_specific".
func ParseStrategy(s string) (Strategy, error) {
	return parseEnum("resolution strategy", s, Manual)
}
