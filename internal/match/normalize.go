package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeIdent normalizes a column header or identifier for fuzzy matching.
// The normalization pipeline:
// 1. Unicode compatibility normalization (NFKC), so full-width and ligature forms
// from spreadsheets compare equal to their ASCII spelling.
// 2. Tokenize CamelCase.
// 3. Case-fold to lower.
// 4. Strip separators (_, -, ., /, spaces).
func NormalizeIdent(s string) string {
	tokens := tokenizeCamelCase(norm.NFKC.String(s))

	joined := strings.Join(tokens, "")
	joined = strings.ToLower(joined)
	joined = stripSeparators(joined)

	return joined
}

// FoldHeader returns the comparison key used for exact header lookups:
// NFKC-normalized, trimmed, lower-cased, inner whitespace collapsed.
func FoldHeader(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))

	return strings.Join(strings.Fields(s), " ")
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "AssetID" -> ["Asset", "ID"]
//   - "serialNumber" -> ["serial", "Number"]
//   - "OSName" -> ["OS", "Name"]
//   - "Asset ID" -> ["Asset", "ID"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		// Handle separators - start a new token
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i == 0 {
			current.WriteRune(r)

			continue
		}

		if shouldStartNewToken(runes, i) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator returns true if the rune separates words in a header.
func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', '/':
		return true
	}

	return unicode.IsSpace(r)
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prevRune := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prevRune)
	isPrevSep := isSeparator(prevRune)

	// Transition from lowercase to uppercase: start new token
	// e.g., "assetID" -> split before 'I'
	if isUpper && !isPrevUpper && !isPrevSep {
		return true
	}

	// End of acronym: check if next character is lowercase
	// e.g., "OSName" -> "OS" + "Name", split before 'N'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if isUpper && isPrevUpper && hasNextLower {
		return true
	}

	return false
}

// stripSeparators removes separators from a string.
func stripSeparators(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// TokenizeIdent splits a header into normalized lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(norm.NFKC.String(s))
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}
