package params

import (
	"regexp"
	"sync"

	"github.com/aretw0/notemill/pkg/domain"
)

// DefaultSensitivePatterns matches parameter names that commonly carry
// secrets. Patterns are case-insensitive regexes searched anywhere in the
// name. The key pattern is word-boundary aware so that "keyword" does not
// match while "key", "sample_key" and "key_for_test" do.
var DefaultSensitivePatterns = []string{
	"password",
	"token",
	`key($|[^w])`,
}

var (
	patternCacheMu sync.Mutex
	patternCache   = make(map[string]*regexp.Regexp)
)

func compilePattern(pattern string) *regexp.Regexp {
	patternCacheMu.Lock()
	defer patternCacheMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		// Invalid caller-supplied patterns never match anything.
		patternCache[pattern] = nil
		return nil
	}
	patternCache[pattern] = re
	return re
}

// IsSensitive reports whether name matches any of the given patterns.
// A nil pattern list means DefaultSensitivePatterns; a non-nil list fully
// replaces the defaults.
func IsSensitive(name string, patterns []string) bool {
	if patterns == nil {
		patterns = DefaultSensitivePatterns
	}
	for _, pattern := range patterns {
		if re := compilePattern(pattern); re != nil && re.MatchString(name) {
			return true
		}
	}
	return false
}

// Obfuscate redacts value when name matches a sensitive pattern, returning
// the fixed redaction marker regardless of the original value (empty strings
// included). Non-matching names pass the value through unchanged.
func Obfuscate(name string, value any, patterns []string) any {
	if IsSensitive(name, patterns) {
		return domain.RedactionMarker
	}
	return value
}
