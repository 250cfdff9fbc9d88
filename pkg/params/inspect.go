package params

import (
	"regexp"
	"strings"

	"github.com/aretw0/notemill/pkg/domain"
)

// assignmentPattern matches simple assignment lines in a parameters cell:
// "name = value", "name: int = value" (python) or "name=value" (shell).
// The trailing alternation keeps "==" comparisons from matching.
var assignmentPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?::[^=]*)?=($|[^=])`)

// InferParameterNames returns the set of parameter names declared in the
// notebook's parameters cell, in source order. A notebook without a
// parameters cell declares nothing.
//
// Detection is intentionally syntactic: it exists so callers can warn about
// supplied names absent from the declared set, never to fail.
func InferParameterNames(nb *domain.Notebook) []string {
	cell := FindParametersCell(nb)
	if cell == nil {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, line := range strings.Split(cell.Source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		match := assignmentPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if name := match[1]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// HasDeclared reports whether name appears in the declared set.
func HasDeclared(declared []string, name string) bool {
	for _, d := range declared {
		if d == name {
			return true
		}
	}
	return false
}
