package common

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// IsSingle returns true if the slice has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}

// IsMultiple returns true if the slice has more than one element.
func IsMultiple[S ~[]E, E any](s S) bool {
	return len(s) > 1
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// HasDuplicates reports whether any value occurs more than once.
func HasDuplicates[S ~[]E, E comparable](s S) bool {
	seen := make(map[E]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return true
		}

		seen[v] = struct{}{}
	}

	return false
}

// IndexOf returns the index of the first element equal to v, or -1.
func IndexOf[S ~[]E, E comparable](s S, v E) int {
	for i := range s {
		if s[i] == v {
			return i
		}
	}

	return -1
}
