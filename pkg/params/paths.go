package params

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/notemill/pkg/domain"
	"github.com/google/uuid"
)

var templateToken = regexp.MustCompile(`\{([^{}]*)\}`)

// AddBuiltins returns a copy of parameters extended with the built-in
// path-template values run_uuid and run_time. User-supplied names win on
// collision.
func AddBuiltins(parameters *domain.Parameters) *domain.Parameters {
	merged := domain.NewParameters()
	merged.Set("run_uuid", uuid.NewString())
	merged.Set("run_time", time.Now().UTC().Format("2006-01-02T15.04.05"))
	if parameters != nil {
		merged.Merge(parameters)
	}
	return merged
}

// ResolveTemplate substitutes {name} tokens in a path-like reference with
// values from the parameter set. Doubled braces escape literals. An empty
// path passes through; an unknown token is an error.
func ResolveTemplate(path string, parameters *domain.Parameters) (string, error) {
	if path == "" || !strings.ContainsAny(path, "{}") {
		return path, nil
	}

	// Protect escaped braces before token substitution.
	const (
		openSentinel  = "\x00OPEN\x00"
		closeSentinel = "\x00CLOSE\x00"
	)
	escaped := strings.ReplaceAll(path, "{{", openSentinel)
	escaped = strings.ReplaceAll(escaped, "}}", closeSentinel)

	var missing string
	resolved := templateToken.ReplaceAllStringFunc(escaped, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := parameters.Get(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return token
		}
		return fmt.Sprintf("%v", value)
	})
	if missing != "" {
		return "", fmt.Errorf("path template references unknown parameter %q in %q", missing, path)
	}

	resolved = strings.ReplaceAll(resolved, openSentinel, "{")
	resolved = strings.ReplaceAll(resolved, closeSentinel, "}")
	return resolved, nil
}
