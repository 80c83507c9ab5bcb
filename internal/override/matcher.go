package override

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Elevated-Standards/mappings-sub003/internal/match"
)

// DefaultRegexCacheSize bounds the number of compiled patterns kept.
const DefaultRegexCacheSize = 256

// Matcher decides whether a column name satisfies a rule pattern. Compiled
// regular expressions are cached per distinct expression.
type Matcher struct {
	regexes *lru.Cache[string, *regexp.Regexp]
}

// NewMatcher returns a matcher caching up to size compiled expressions.
func NewMatcher(size int) *Matcher {
	if size <= 0 {
		size = DefaultRegexCacheSize
	}

	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}

	return &Matcher{regexes: cache}
}

// Compile compiles a regex pattern, honouring case sensitivity, and caches it.
func (m *Matcher) Compile(p Pattern) (*regexp.Regexp, error) {
	expr := p.Text
	if !p.CaseSensitive {
		expr = "(?i)" + expr
	}

	if re, ok := m.regexes.Get(expr); ok {
		return re, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	m.regexes.Add(expr, re)

	return re, nil
}

// Matches reports whether column satisfies pattern p under match kind t.
// It never panics: an uncompilable regex or a missing fuzzy threshold is a
// non-match.
func (m *Matcher) Matches(column string, p Pattern, t OverrideType) bool {
	if t == MatchRegex {
		re, err := m.Compile(p)
		if err != nil {
			return false
		}

		return re.MatchString(column)
	}

	target, text := column, p.Text
	if !p.CaseSensitive {
		target = strings.ToLower(target)
		text = strings.ToLower(text)
	}

	switch t {
	case MatchExact:
		return target == text
	case MatchContains:
		return strings.Contains(target, text)
	case MatchStartsWith:
		return strings.HasPrefix(target, text)
	case MatchEndsWith:
		return strings.HasSuffix(target, text)
	case MatchFuzzy:
		if p.SimilarityThreshold == nil {
			return false
		}

		return match.LevenshteinNormalized(target, text) >= *p.SimilarityThreshold
	case MatchWordBoundary:
		// TODO: give word-boundary matching a concrete semantic (regex with \b
		// anchors around the quoted pattern) once rule authors agree on it.
		return false
	default:
		return false
	}
}
