package override

import (
	"slices"
	"strings"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
)

// ScopeMatches reports whether a rule with the given scope applies to ctx.
// A scope naming a context field that is absent never matches.
func ScopeMatches(scope Scope, ctx *Context) bool {
	switch s := scope.(type) {
	case GlobalScope:
		return true
	case DocumentTypeScope:
		return ctx.DocumentType == s.Name
	case FilePatternScope:
		return ctx.FileName != nil && strings.Contains(*ctx.FileName, s.Substr)
	case UserScope:
		return equalsOpt(ctx.UserID, s.ID)
	case OrganizationScope:
		return equalsOpt(ctx.Organization, s.ID)
	case ProjectScope:
		return equalsOpt(ctx.ProjectID, s.ID)
	default:
		return false
	}
}

func equalsOpt(v *string, want string) bool {
	return v != nil && *v == want
}

// ConditionsHold reports whether every required condition holds for ctx.
// Optional conditions are evaluated but do not change the outcome.
func ConditionsHold(conds []Condition, ctx *Context) bool {
	for i := range conds {
		ok := EvaluateCondition(&conds[i], ctx)
		if conds[i].Required && !ok {
			return false
		}
	}

	return true
}

// EvaluateCondition evaluates a single condition against ctx. String
// comparisons are case-sensitive. A missing subject evaluates to false.
func EvaluateCondition(c *Condition, ctx *Context) bool {
	switch c.Type {
	case ConditionDocumentType:
		return compareStringValue(c, ctx.DocumentType)
	case ConditionFileName:
		return ctx.FileName != nil && compareStringValue(c, *ctx.FileName)
	case ConditionUser:
		return ctx.UserID != nil && compareStringValue(c, *ctx.UserID)
	case ConditionMetadata:
		v, ok := ctx.Metadata[c.Field]
		return ok && compareStringValue(c, v)
	case ConditionHeaderContent:
		return anySubject(c, ctx.Headers)
	case ConditionCellContent:
		var cells []string
		for _, row := range ctx.SampleData {
			cells = append(cells, row...)
		}

		return anySubject(c, cells)
	case ConditionColumnCount:
		return compareNumberValue(c, float64(ctx.columnCount()))
	case ConditionRowCount:
		return ctx.RowCount != nil && compareNumberValue(c, float64(*ctx.RowCount))
	case ConditionFileSize:
		return ctx.FileSize != nil && compareNumberValue(c, float64(*ctx.FileSize))
	default:
		return false
	}
}

// anySubject evaluates a condition over a collection: a positive operator
// holds when some element satisfies it, a negative one when no element
// satisfies its positive form.
func anySubject(c *Condition, subjects []string) bool {
	want, ok := c.Value.(StringValue)
	if !ok {
		return false
	}

	op := c.Operator.positive()
	found := slices.ContainsFunc(subjects, func(s string) bool {
		return compareString(op, s, string(want))
	})

	if c.Operator.isNegative() {
		return !found
	}

	return found
}

func compareStringValue(c *Condition, subject string) bool {
	want, ok := c.Value.(StringValue)
	if !ok {
		return false
	}

	return compareString(c.Operator, subject, string(want))
}

func compareString(op Operator, subject, want string) bool {
	switch op {
	case OpEquals:
		return subject == want
	case OpNotEquals:
		return subject != want
	case OpContains:
		return strings.Contains(subject, want)
	case OpNotContains:
		return !strings.Contains(subject, want)
	case OpStartsWith:
		return strings.HasPrefix(subject, want)
	case OpEndsWith:
		return strings.HasSuffix(subject, want)
	default:
		return false
	}
}

func compareNumberValue(c *Condition, subject float64) bool {
	want, ok := c.Value.(NumberValue)
	if !ok {
		return false
	}

	w := float64(want)

	switch c.Operator {
	case OpEquals:
		return subject == w
	case OpNotEquals:
		return subject != w
	case OpGreaterThan:
		return subject > w
	case OpLessThan:
		return subject < w
	case OpGreaterOrEqual:
		return subject >= w
	case OpLessOrEqual:
		return subject <= w
	default:
		return false
	}
}

// PositionAllows reports whether column sits at a permitted position. Without
// constraints every position is allowed. With constraints the column must
// occur in headers and its first index must satisfy them.
func PositionAllows(pc *PositionConstraints, column string, headers []string) bool {
	if pc == nil {
		return true
	}

	idx := common.IndexOf(headers, column)
	if idx < 0 {
		return false
	}

	if pc.MinIndex != nil && idx < *pc.MinIndex {
		return false
	}

	if pc.MaxIndex != nil && idx > *pc.MaxIndex {
		return false
	}

	if pc.SpecificIndices != nil && !slices.Contains(pc.SpecificIndices, idx) {
		return false
	}

	return true
}
