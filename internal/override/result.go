package override

import (
	"slices"
	"time"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
)

// Confidence scores reported for applied overrides.
const (
	// SingleMatchConfidence is reported when exactly one rule matched.
	SingleMatchConfidence = 1.0
	// ResolvedConflictConfidence is reported when a strategy picked a winner
	// among several matching rules.
	ResolvedConflictConfidence = 0.8
)

// Result is the outcome of resolving one column.
type Result struct {
	OverrideApplied bool
	AppliedOverride *MappingOverride
	// TargetField is empty when no override applied.
	TargetField string
	Confidence  float64
	Conflicts   []Conflict
	// ResolutionTime is diagnostic only.
	ResolutionTime time.Duration
}

// Clone returns a deep copy of the result.
func (r Result) Clone() Result {
	c := r

	if r.AppliedOverride != nil {
		o := r.AppliedOverride.Clone()
		c.AppliedOverride = &o
	}

	if r.Conflicts != nil {
		c.Conflicts = make([]Conflict, len(r.Conflicts))
		for i := range r.Conflicts {
			c.Conflicts[i] = r.Conflicts[i].clone()
		}
	}

	return c
}

// ConflictType classifies a Conflict.
type ConflictType int

const (
	// PatternOverlap means several rules claim the same column.
	PatternOverlap ConflictType = iota
	// PriorityTie means the strategy's primary ordering could not separate
	// the leading rules and the id order decided.
	PriorityTie
	// DuplicateID means a rule reused the id of an admitted rule.
	DuplicateID
)

// String returns a human-readable conflict type name.
func (t ConflictType) String() string {
	switch t {
	case PatternOverlap:
		return "pattern_overlap"
	case PriorityTie:
		return "priority_tie"
	case DuplicateID:
		return "duplicate_id"
	default:
		return common.UnknownStr
	}
}

// Severity orders conflicts by impact. Critical conflicts block admission.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return common.UnknownStr
	}
}

// Conflict records rules that compete for the same columns.
type Conflict struct {
	OverrideIDs         []string
	Type                ConflictType
	Severity            Severity
	Description         string
	SuggestedResolution string
}

// Involves reports whether the rule with the given id takes part.
func (c *Conflict) Involves(id string) bool {
	return slices.Contains(c.OverrideIDs, id)
}

func (c *Conflict) clone() Conflict {
	cp := *c
	cp.OverrideIDs = slices.Clone(c.OverrideIDs)

	return cp
}

// Metrics are cumulative engine counters.
type Metrics struct {
	// TotalApplications counts every ResolveOverride call, cache hits included.
	TotalApplications uint64
	// SuccessfulMatches counts resolutions that applied an override.
	SuccessfulMatches uint64
	// ConflictsEncountered counts conflicts found at admission and
	// multi-match resolutions.
	ConflictsEncountered uint64
	// ValidationFailures counts rules rejected by the validator.
	ValidationFailures uint64
	CacheHits          uint64
	CacheMisses        uint64
	AvgResolutionTime  time.Duration
}

// CacheHitRate returns hits / (hits + misses), 0 before any lookup.
func (m Metrics) CacheHitRate() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}

	return float64(m.CacheHits) / float64(total)
}
