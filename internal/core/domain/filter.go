package domain

// FilterSpec holds the include and exclude glob patterns of a feed.
// Patterns support `*` (any run of characters, including none) and
// `?` (exactly one character). Matching is case-sensitive and anchored
// at both ends of the path.
type FilterSpec struct {
	// Includes lists patterns a path must match to be synced.
	// Empty means everything not excluded is synced.
	Includes []string

	// Excludes lists patterns that always reject a path.
	Excludes []string
}

// Allows reports whether path passes this filter.
func (f FilterSpec) Allows(path string) bool {
	return IsSyncWorthy(path, f.Includes, f.Excludes)
}

// IsEmpty returns true when the filter has no patterns at all.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Includes) == 0 && len(f.Excludes) == 0
}

// IsSyncWorthy decides whether path should be indexed or deleted.
// Excludes are checked first and dominate includes.
func IsSyncWorthy(path string, includes, excludes []string) bool {
	for _, pattern := range excludes {
		if MatchGlob(pattern, path) {
			return false
		}
	}

	if len(includes) == 0 {
		return true
	}

	for _, pattern := range includes {
		if MatchGlob(pattern, path) {
			return true
		}
	}
	return false
}

// MatchGlob reports whether name matches pattern in full.
// Every character other than `*` and `?` is literal, so a pattern can
// never be malformed. `*` crosses path separators.
func MatchGlob(pattern, name string) bool {
	p := []rune(pattern)
	s := []rune(name)

	pi, si := 0, 0
	star, mark := -1, 0

	for si < len(s) {
		switch {
		case pi < len(p) && p[pi] == '*':
			star = pi
			mark = si
			pi++
		case pi < len(p) && (p[pi] == '?' || p[pi] == s[si]):
			pi++
			si++
		case star >= 0:
			// Let the last star swallow one more character and retry.
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
