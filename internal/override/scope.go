package override

import (
	"github.com/cockroachdb/errors"
)

// Scope is the applicability boundary of a rule. The set of implementations
// is closed: GlobalScope, DocumentTypeScope, FilePatternScope, UserScope,
// OrganizationScope and ProjectScope. All of them are comparable, so two
// scopes are equal exactly when == holds.
type Scope interface {
	// Kind returns the rule-file name of the scope variant.
	Kind() string
	// Identifier returns the scoped value, empty for GlobalScope.
	Identifier() string
	String() string

	isScope()
}

// GlobalScope applies to every document.
type GlobalScope struct{}

// DocumentTypeScope applies when the document type equals Name.
type DocumentTypeScope struct{ Name string }

// FilePatternScope applies when the file name contains Substr.
type FilePatternScope struct{ Substr string }

// UserScope applies when the requesting user equals ID.
type UserScope struct{ ID string }

// OrganizationScope applies when the organization equals ID.
type OrganizationScope struct{ ID string }

// ProjectScope applies when the project equals ID.
type ProjectScope struct{ ID string }

func (GlobalScope) isScope()       {}
func (DocumentTypeScope) isScope() {}
func (FilePatternScope) isScope()  {}
func (UserScope) isScope()         {}
func (OrganizationScope) isScope() {}
func (ProjectScope) isScope()      {}

func (GlobalScope) Kind() string       { return "global" }
func (DocumentTypeScope) Kind() string { return "document_type" }
func (FilePatternScope) Kind() string  { return "file_pattern" }
func (UserScope) Kind() string         { return "user" }
func (OrganizationScope) Kind() string { return "organization" }
func (ProjectScope) Kind() string      { return "project" }

func (GlobalScope) Identifier() string         { return "" }
func (s DocumentTypeScope) Identifier() string { return s.Name }
func (s FilePatternScope) Identifier() string  { return s.Substr }
func (s UserScope) Identifier() string         { return s.ID }
func (s OrganizationScope) Identifier() string { return s.ID }
func (s ProjectScope) Identifier() string      { return s.ID }

func (GlobalScope) String() string         { return "global" }
func (s DocumentTypeScope) String() string { return "document_type:" + s.Name }
func (s FilePatternScope) String() string  { return "file_pattern:" + s.Substr }
func (s UserScope) String() string         { return "user:" + s.ID }
func (s OrganizationScope) String() string { return "organization:" + s.ID }
func (s ProjectScope) String() string      { return "project:" + s.ID }

// NewScope builds a scope from its rule-file kind and identifier.
func NewScope(kind, id string) (Scope, error) {
	switch kind {
	case "", "global":
		return GlobalScope{}, nil
	case "document_type":
		return DocumentTypeScope{Name: id}, nil
	case "file_pattern":
		return FilePatternScope{Substr: id}, nil
	case "user":
		return UserScope{ID: id}, nil
	case "organization":
		return OrganizationScope{ID: id}, nil
	case "project":
		return ProjectScope{ID: id}, nil
	default:
		return nil, errors.Newf("unknown scope kind %q", kind)
	}
}
