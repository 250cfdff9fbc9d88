package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/notemill/pkg/domain"
)

// Translator renders parameter assignments as source code for a target
// language.
type Translator interface {
	// Assign renders a single literal assignment line.
	Assign(name string, value any) string

	// Comment renders a source comment line.
	Comment(text string) string
}

// ForLanguage returns the translator for a language name. Unknown or empty
// languages fall back to the python translator, the dominant notebook dialect.
func ForLanguage(language string) Translator {
	switch strings.ToLower(language) {
	case "bash", "sh", "shell":
		return shellTranslator{}
	default:
		return pythonTranslator{}
	}
}

type pythonTranslator struct{}

func (pythonTranslator) Comment(text string) string {
	return "# " + text
}

func (pythonTranslator) Assign(name string, value any) string {
	return fmt.Sprintf("%s = %s", name, pythonLiteral(value))
}

func pythonLiteral(value any) string {
	switch v := value.(type) {
	case domain.Raw:
		return string(v)
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = pythonLiteral(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = strconv.Quote(key) + ": " + pythonLiteral(v[key])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

type shellTranslator struct{}

func (shellTranslator) Comment(text string) string {
	return "# " + text
}

func (shellTranslator) Assign(name string, value any) string {
	switch v := value.(type) {
	case domain.Raw:
		return fmt.Sprintf("%s=%s", name, string(v))
	case string:
		return fmt.Sprintf("%s='%s'", name, strings.ReplaceAll(v, "'", `'"'"'`))
	default:
		return fmt.Sprintf("%s=%v", name, v)
	}
}
