package override

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
)

// Strategy picks a single winner when several rules match one column.
type Strategy int

const (
	// HighestPriority prefers the highest priority, then the smallest id.
	HighestPriority Strategy = iota
	// MostRecent prefers the newest rule, then priority, then id.
	MostRecent
	// MostSpecific prefers the highest Specificity, then priority, then id.
	MostSpecific
	// Combine is accepted for compatibility and behaves like HighestPriority.
	Combine
	// Manual refuses to choose and reports the conflict.
	Manual
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case HighestPriority:
		return "highest_priority"
	case MostRecent:
		return "most_recent"
	case MostSpecific:
		return "most_specific"
	case Combine:
		return "combine"
	case Manual:
		return "manual"
	default:
		return common.UnknownStr
	}
}

// Specificity scores how narrowly a rule is scoped and matched. Higher is
// more specific.
func Specificity(o *MappingOverride) float64 {
	score := scopeWeight(o.Scope) + patternWeight(o.Type)
	score += 0.5 * float64(len(o.Conditions))

	if o.PositionConstraints != nil {
		score += 1.0
	}

	return score
}

func scopeWeight(s Scope) float64 {
	switch s.(type) {
	case GlobalScope:
		return 1.0
	case DocumentTypeScope:
		return 2.0
	case FilePatternScope:
		return 3.0
	case OrganizationScope, ProjectScope:
		return 3.5
	case UserScope:
		return 4.0
	default:
		return 0
	}
}

func patternWeight(t OverrideType) float64 {
	switch t {
	case MatchFuzzy:
		return 1.0
	case MatchContains:
		return 2.0
	case MatchStartsWith, MatchEndsWith:
		return 3.0
	case MatchWordBoundary:
		return 3.5
	case MatchRegex:
		return 4.0
	case MatchExact:
		return 5.0
	default:
		return 0
	}
}

// Resolver applies a Strategy to a set of matching rules.
type Resolver struct {
	strategy Strategy
	logger   *zap.Logger
}

// NewResolver returns a resolver for the given strategy.
func NewResolver(strategy Strategy, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{strategy: strategy, logger: logger}
}

// Strategy returns the configured strategy.
func (r *Resolver) Strategy() Strategy {
	return r.strategy
}

// Resolve picks a winner among two or more matching rules for column. The
// returned conflict lists every matched rule. Under Manual no winner is
// picked and a *ConflictError is returned.
func (r *Resolver) Resolve(column string, matches []*MappingOverride) (*MappingOverride, Conflict, error) {
	ranked := slices.Clone(matches)

	strategy := r.strategy
	if strategy == Combine {
		r.logger.Warn("combine strategy degrades to highest priority",
			zap.String("column", column),
			zap.Int("matches", len(matches)))

		strategy = HighestPriority
	}

	if strategy != Manual {
		slices.SortFunc(ranked, comparator(strategy))
	} else {
		slices.SortFunc(ranked, func(a, b *MappingOverride) int { return cmp.Compare(a.ID, b.ID) })
	}

	ids := make([]string, len(ranked))
	for i, o := range ranked {
		ids[i] = o.ID
	}

	conflict := newConflict(PatternOverlap, SeverityMedium,
		fmt.Sprintf("column %q matched %d overrides", column, len(ranked)),
		"raise the priority of the intended override or narrow the others",
		ids...)

	if strategy == Manual {
		conflict.SuggestedResolution = "resolve manually: disable or remove all but one of " + strings.Join(ids, ", ")

		return nil, conflict, newConflictError(
			fmt.Sprintf("column %q requires manual resolution", column), []Conflict{conflict})
	}

	if tied(strategy, ranked[0], ranked[1]) {
		conflict.Type = PriorityTie
		conflict.Description = fmt.Sprintf("column %q matched %d overrides; the leading ones tie under %s",
			column, len(ranked), strategy)
	}

	return ranked[0], conflict, nil
}

// comparator orders rules best first, ending with ascending id so the order
// is total.
func comparator(s Strategy) func(a, b *MappingOverride) int {
	byPriority := func(a, b *MappingOverride) int { return cmp.Compare(b.Priority, a.Priority) }
	byID := func(a, b *MappingOverride) int { return cmp.Compare(a.ID, b.ID) }

	switch s {
	case MostRecent:
		return func(a, b *MappingOverride) int {
			return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), byPriority(a, b), byID(a, b))
		}
	case MostSpecific:
		return func(a, b *MappingOverride) int {
			return cmp.Or(cmp.Compare(Specificity(b), Specificity(a)), byPriority(a, b), byID(a, b))
		}
	default:
		return func(a, b *MappingOverride) int {
			return cmp.Or(byPriority(a, b), byID(a, b))
		}
	}
}

// tied reports whether the strategy's primary ordering cannot separate a and b.
func tied(s Strategy, a, b *MappingOverride) bool {
	switch s {
	case MostRecent:
		return a.CreatedAt.Equal(b.CreatedAt)
	case MostSpecific:
		return Specificity(a) == Specificity(b)
	default:
		return a.Priority == b.Priority
	}
}

// ConflictAnalysis summarizes a set of conflicts by severity.
type ConflictAnalysis struct {
	Total    int
	Critical int
	High     int
	Medium   int
	Low      int
	// ResolvableAutomatically is true when nothing is critical and the
	// strategy picks winners on its own.
	ResolvableAutomatically bool
	Recommendations         []string
}

// Analyze counts conflicts per severity and recommends follow-up actions.
func (r *Resolver) Analyze(conflicts []Conflict) ConflictAnalysis {
	a := ConflictAnalysis{Total: len(conflicts)}

	for i := range conflicts {
		switch conflicts[i].Severity {
		case SeverityCritical:
			a.Critical++
		case SeverityHigh:
			a.High++
		case SeverityMedium:
			a.Medium++
		case SeverityLow:
			a.Low++
		}
	}

	a.ResolvableAutomatically = a.Critical == 0 && r.strategy != Manual

	if a.Critical > 0 {
		a.Recommendations = append(a.Recommendations, "critical conflicts require manual review")
	}

	if a.High > 0 {
		a.Recommendations = append(a.Recommendations, "high severity conflicts should be reviewed and resolved")
	}

	if !a.ResolvableAutomatically {
		a.Recommendations = append(a.Recommendations,
			fmt.Sprintf("strategy %s cannot resolve these conflicts automatically; consider %s or %s",
				r.strategy, HighestPriority, MostSpecific))
	}

	return a
}
