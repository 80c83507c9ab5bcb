// Package diagnostic provides structured errors, warnings and infos
// produced while validating override rule files and planning column mappings.
//
// Key capabilities:
//   - Rule validation failures keyed by rule id
//   - Unmapped and low-confidence column warnings
//   - Override conflict reports with suggested resolutions
package diagnostic
