package match

import (
	"sort"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
)

// SourceType identifies which document family a catalog field belongs to.
type SourceType int

const (
	SourceCustom SourceType = iota
	SourceInventory
	SourcePOAM
	SourceSSPSection
)

// String returns the configuration name of the source type.
func (s SourceType) String() string {
	switch s {
	case SourceCustom:
		return "custom"
	case SourceInventory:
		return "inventory"
	case SourcePOAM:
		return "poam"
	case SourceSSPSection:
		return "ssp_section"
	default:
		return common.UnknownStr
	}
}

// ParseSourceType parses a configuration name. Empty input means custom.
func ParseSourceType(s string) (SourceType, bool) {
	switch s {
	case "", "custom":
		return SourceCustom, true
	case "inventory":
		return SourceInventory, true
	case "poam":
		return SourcePOAM, true
	case "ssp_section", "ssp":
		return SourceSSPSection, true
	default:
		return SourceCustom, false
	}
}

// FieldDef is one canonical target field together with the column headers
// known to carry it.
type FieldDef struct {
	Target     string
	Columns    []string
	SourceType SourceType
	Required   bool
}

// Candidate represents a potential mapping from a source column to a catalog field.
type Candidate struct {
	Field *FieldDef

	// Column is the catalog alias that produced the best score.
	Column string

	// Score is the normalized Levenshtein similarity (0-1).
	Score float64

	// Metadata for debugging/explanation
	NormalizedSource string
	NormalizedColumn string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every catalog field against a source column.
// Each field is scored by its best-matching alias.
// Returns candidates sorted by score (descending).
func RankCandidates(sourceColumn string, fields []FieldDef) CandidateList {
	candidates := make(CandidateList, 0, len(fields))

	sourceNorm := NormalizeIdent(sourceColumn)

	for i := range fields {
		field := &fields[i]

		best := Candidate{Field: field, Score: -1, NormalizedSource: sourceNorm}

		for _, col := range field.Columns {
			colNorm := NormalizeIdent(col)

			score := LevenshteinNormalized(sourceNorm, colNorm)
			if score > best.Score {
				best.Score = score
				best.Column = col
				best.NormalizedColumn = colNorm
			}
		}

		if best.Score < 0 {
			// Field without aliases: fall back to its target name.
			best.Column = field.Target
			best.NormalizedColumn = NormalizeIdent(field.Target)
			best.Score = LevenshteinNormalized(sourceNorm, best.NormalizedColumn)
		}

		candidates = append(candidates, best)
	}

	RankSort(candidates)

	return candidates
}

// RankSort orders candidates by score (descending), then by target name
// for determinism.
func RankSort(c CandidateList) {
	sort.Sort(c)
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by target field name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Field.Target < c[j].Field.Target
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	diff := c[0].Score - c[1].Score

	return diff < threshold
}

// AboveThreshold returns candidates with score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// HighConfidence returns the best candidate if it's significantly better than alternatives.
// Returns nil if no clear winner exists.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	if len(c) == 0 {
		return nil
	}

	best := &c[0]

	if best.Score < minScore {
		return nil
	}

	if len(c) > 1 {
		gap := c[0].Score - c[1].Score
		if gap < minGap {
			return nil
		}
	}

	return best
}

// Confidence thresholds for accepting fuzzy matches.
const (
	// DefaultMinScore is the minimum score for a fuzzy match to be accepted.
	DefaultMinScore = 0.7
	// DefaultMinGap is the minimum score gap between top candidates.
	DefaultMinGap = 0.15
	// DefaultAmbiguityThreshold is the score difference that marks ambiguity.
	DefaultAmbiguityThreshold = 0.1
)
