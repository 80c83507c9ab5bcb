package override

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrValidation marks every *ValidationError.
	ErrValidation = errors.New("override validation failed")
	// ErrConflict marks every *ConflictError.
	ErrConflict = errors.New("override conflict")
	// ErrNotFound is returned when a rule id is unknown.
	ErrNotFound = errors.New("override not found")
)

// ValidationError reports the first constraint a rule violates.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, format string, args ...any) error {
	return errors.Mark(&ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}, ErrValidation)
}

// ConflictError blocks admission or resolution until a person resolves the
// listed conflicts.
type ConflictError struct {
	Reason    string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, strings.Join(c.OverrideIDs, ","))
	}

	return fmt.Sprintf("%s: [%s]", e.Reason, strings.Join(ids, "; "))
}

func newConflictError(reason string, conflicts []Conflict) error {
	err := errors.Mark(&ConflictError{Reason: reason, Conflicts: conflicts}, ErrConflict)

	for _, c := range conflicts {
		if c.SuggestedResolution != "" {
			err = errors.WithHint(err, c.SuggestedResolution)
		}
	}

	return err
}
