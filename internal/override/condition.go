package override

import (
	"strconv"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
)

// ConditionType selects which part of the context a Condition inspects.
type ConditionType int

const (
	ConditionDocumentType ConditionType = iota
	ConditionFileName
	ConditionHeaderContent
	ConditionCellContent
	ConditionUser
	ConditionMetadata
	ConditionColumnCount
	ConditionRowCount
	ConditionFileSize
)

// String returns the rule-file name of the condition type.
func (t ConditionType) String() string {
	switch t {
	case ConditionDocumentType:
		return "document_type"
	case ConditionFileName:
		return "file_name"
	case ConditionHeaderContent:
		return "header_content"
	case ConditionCellContent:
		return "cell_content"
	case ConditionUser:
		return "user"
	case ConditionMetadata:
		return "metadata"
	case ConditionColumnCount:
		return "column_count"
	case ConditionRowCount:
		return "row_count"
	case ConditionFileSize:
		return "file_size"
	default:
		return common.UnknownStr
	}
}

// IsNumeric reports whether the condition compares numbers.
func (t ConditionType) IsNumeric() bool {
	switch t {
	case ConditionColumnCount, ConditionRowCount, ConditionFileSize:
		return true
	default:
		return false
	}
}

// Operator is a comparison applied by a Condition.
type Operator int

const (
	OpEquals Operator = iota
	OpNotEquals
	OpContains
	OpNotContains
	OpStartsWith
	OpEndsWith
	OpGreaterThan
	OpLessThan
	OpGreaterOrEqual
	OpLessOrEqual
)

// String returns the rule-file name of the operator.
func (op Operator) String() string {
	switch op {
	case OpEquals:
		return "equals"
	case OpNotEquals:
		return "not_equals"
	case OpContains:
		return "contains"
	case OpNotContains:
		return "not_contains"
	case OpStartsWith:
		return "starts_with"
	case OpEndsWith:
		return "ends_with"
	case OpGreaterThan:
		return "greater_than"
	case OpLessThan:
		return "less_than"
	case OpGreaterOrEqual:
		return "greater_or_equal"
	case OpLessOrEqual:
		return "less_or_equal"
	default:
		return common.UnknownStr
	}
}

// IsStringOnly reports whether the operator only makes sense on strings.
func (op Operator) IsStringOnly() bool {
	switch op {
	case OpContains, OpNotContains, OpStartsWith, OpEndsWith:
		return true
	default:
		return false
	}
}

// IsNumericOnly reports whether the operator only makes sense on numbers.
func (op Operator) IsNumericOnly() bool {
	switch op {
	case OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual:
		return true
	default:
		return false
	}
}

// isNegative reports whether the operator is the negation of another one.
func (op Operator) isNegative() bool {
	return op == OpNotEquals || op == OpNotContains
}

// positive returns the operator a negative operator negates.
func (op Operator) positive() Operator {
	switch op {
	case OpNotEquals:
		return OpEquals
	case OpNotContains:
		return OpContains
	default:
		return op
	}
}

// ConditionValue is the typed right-hand side of a Condition. It is either a
// StringValue or a NumberValue.
type ConditionValue interface {
	String() string

	isConditionValue()
}

// StringValue is a string condition operand.
type StringValue string

// NumberValue is a numeric condition operand.
type NumberValue float64

func (StringValue) isConditionValue() {}
func (NumberValue) isConditionValue() {}

func (v StringValue) String() string { return string(v) }

func (v NumberValue) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}
