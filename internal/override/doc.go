// Package override decides which canonical target field a source column maps
// to when user-defined override rules exist.
//
// Resolution pipeline for one column:
//  1. Look the (column, document type) pair up in the resolution cache
//  2. Filter active rules by scope, required conditions, position and pattern
//  3. Zero matches: not applied, caller falls back to the base column mapper
//  4. One match: applied with confidence 1.0
//  5. Several matches: the configured Strategy picks a winner (confidence 0.8)
//     and a conflict listing every matched rule is attached
//
// Rules enter the engine only through AddOverride, which validates them and
// runs conflict detection first. Every mutation of the rule set purges the
// resolution cache.
//
// Engine is not safe for concurrent use; wrap it in a SyncEngine when several
// goroutines resolve columns at once.
package override
