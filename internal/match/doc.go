// Package match provides header normalization, Levenshtein similarity,
// candidate ranking and the base exact/fuzzy column mapper used when no
// override rule applies to a column.
//
// Key functions:
//   - NormalizeIdent: normalizes headers and identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: ranks catalog fields for a source column
//   - ColumnMapper: maps document headers to target fields
package match
