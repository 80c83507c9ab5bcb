package mapping

import (
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// Single string value
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		// Array of strings
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return errors.Newf("line %d: expected string or array, got %v", node.Line, node.Kind)
	}
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- ScopeSpec YAML methods ---

// UnmarshalYAML accepts:
//   - Scalar: global
//   - Single-key mapping: {document_type: poam}
func (s *ScopeSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = ScopeSpec{Kind: node.Value}
		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return errors.Newf("line %d: scope must have exactly one key, got %d", node.Line, len(node.Content)/2)
		}

		key, val := node.Content[0], node.Content[1]
		if val.Kind != yaml.ScalarNode {
			return errors.Newf("line %d: scope %s value must be a string", val.Line, key.Value)
		}

		*s = ScopeSpec{Kind: key.Value, ID: val.Value}

		return nil

	default:
		return errors.Newf("line %d: expected scope name or mapping, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes global scopes as a scalar and the rest as a
// single-key mapping.
func (s ScopeSpec) MarshalYAML() (any, error) {
	if s.Kind == "" || s.Kind == "global" {
		return "global", nil
	}

	return map[string]string{s.Kind: s.ID}, nil
}

// IsZero lets omitempty drop an unset scope.
func (s ScopeSpec) IsZero() bool {
	return s.Kind == "" && s.ID == ""
}

// --- ConditionValue YAML methods ---

// UnmarshalYAML accepts any scalar. Plain integers and floats become numbers.
func (v *ConditionValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: condition value must be a scalar, got %v", node.Line, node.Kind)
	}

	*v = ConditionValue{Text: node.Value, Set: true}

	switch node.ShortTag() {
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			var f float64
			if derr := node.Decode(&f); derr != nil {
				return errors.Wrapf(derr, "line %d: condition value", node.Line)
			}

			n = f
		}

		v.Number = n
		v.IsNumber = true
	}

	return nil
}

// MarshalYAML writes numbers unquoted and text as a string.
func (v ConditionValue) MarshalYAML() (any, error) {
	if v.IsNumber {
		return v.Number, nil
	}

	return v.Text, nil
}
