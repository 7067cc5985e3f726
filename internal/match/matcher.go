// Package match evaluates whether target texts or patterns appear in screen
// text. A slice of targets matches only when every element matches.
package match

import (
	"fmt"
	"regexp"
	"strings"
)

// Options configures a match evaluation
type Options struct {
	// CaseSensitive switches both substring and regexp matching.
	// Matching is case-insensitive by default.
	CaseSensitive bool
}

// Match reports whether targets appear in text. A target may be a string
// (substring containment), a *regexp.Regexp, or a slice of either; slices
// require every element to match. The caller's pattern objects are never
// mutated: regexps are recompiled per check with the configured case
// sensitivity forced.
func Match(targets any, text string, opts Options) (bool, error) {
	switch t := targets.(type) {
	case nil:
		return false, fmt.Errorf("nil match target")
	case string:
		return matchString(t, text, opts.CaseSensitive), nil
	case *regexp.Regexp:
		return matchRegexp(t, text, opts.CaseSensitive)
	case []string:
		for _, s := range t {
			if !matchString(s, text, opts.CaseSensitive) {
				return false, nil
			}
		}
		return len(t) > 0, nil
	case []*regexp.Regexp:
		for _, re := range t {
			ok, err := matchRegexp(re, text, opts.CaseSensitive)
			if err != nil || !ok {
				return false, err
			}
		}
		return len(t) > 0, nil
	case []any:
		for _, one := range t {
			ok, err := Match(one, text, opts)
			if err != nil || !ok {
				return false, err
			}
		}
		return len(t) > 0, nil
	default:
		return false, fmt.Errorf("unsupported match target type %T", targets)
	}
}

// matchString checks substring containment with optional case folding
func matchString(target, text string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(text, target)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(target))
}

// matchRegexp recompiles the pattern forcing the configured case sensitivity
// and checks it against the text.
func matchRegexp(re *regexp.Regexp, text string, caseSensitive bool) (bool, error) {
	forced, err := forceCase(re, caseSensitive)
	if err != nil {
		return false, err
	}
	return forced.MatchString(text), nil
}

// forceCase returns a fresh regexp with the (?i) flag added or stripped to
// reflect the requested case sensitivity. The source pattern is left intact.
func forceCase(re *regexp.Regexp, caseSensitive bool) (*regexp.Regexp, error) {
	pattern := re.String()
	hasFlag := strings.HasPrefix(pattern, "(?i)")

	switch {
	case caseSensitive && hasFlag:
		pattern = strings.TrimPrefix(pattern, "(?i)")
	case !caseSensitive && !hasFlag:
		pattern = "(?i)" + pattern
	default:
		// already in the requested form; reuse the compiled pattern
		return re, nil
	}

	forced, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern after case adjustment: %w", err)
	}
	return forced, nil
}
