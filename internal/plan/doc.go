// Package plan produces column mapping plans for tabular documents.
//
// Planning pipeline, per document:
//  1. Map every header with the base column mapper (exact alias, then fuzzy)
//  2. Merge with override resolution; an applied override wins
//  3. Emit diagnostics (unmapped columns with suggestions, low-confidence
//     fuzzy matches, override conflicts, duplicate targets, missing
//     required fields)
//
// Plans can be exported as a rule file that pins fuzzy matches as exact
// overrides for review.
package plan
