package params

import (
	"strings"

	"github.com/aretw0/notemill/pkg/domain"
)

// InjectOptions controls parameter injection.
type InjectOptions struct {
	// Language selects the translator used to render assignments. Empty means
	// the notebook's own language metadata, falling back to python.
	Language string

	// ReportMode flags every code cell's source as hidden.
	ReportMode bool

	// Obfuscate enables redaction of sensitive parameter values, both in the
	// rendered source and in the recorded metadata.
	Obfuscate bool

	// SensitivePatterns replaces the default sensitive-name patterns when
	// non-nil.
	SensitivePatterns []string
}

// Inject builds or updates the notebook's parameters cell and records the
// resolved parameter set in the reserved metadata namespace.
//
// The cell tagged "parameters" is located among code cells; when absent, a
// fresh tagged cell is inserted at index 0. Its source is replaced by the
// header comment followed by one literal assignment per parameter, in
// insertion order of the supplied set.
func Inject(nb *domain.Notebook, parameters *domain.Parameters, opts InjectOptions) error {
	language := opts.Language
	if language == "" {
		language = nb.Language()
	}
	translator := ForLanguage(language)

	lines := []string{translator.Comment(strings.TrimPrefix(domain.ParametersHeader, "# "))}
	recorded := make(map[string]any, parameters.Len())
	parameters.Range(func(name string, value any) bool {
		if opts.Obfuscate {
			value = Obfuscate(name, value, opts.SensitivePatterns)
		}
		lines = append(lines, translator.Assign(name, value))
		recorded[name] = value
		return true
	})
	source := strings.Join(lines, "\n") + "\n"

	if cell := FindParametersCell(nb); cell != nil {
		cell.Source = source
	} else {
		cell = domain.NewCodeCell(source)
		cell.AddTag(domain.ParametersTag)
		nb.Cells = append([]*domain.Cell{cell}, nb.Cells...)
	}

	nb.Reserved()["parameters"] = recorded

	if opts.ReportMode {
		HideSource(nb)
	}
	return nil
}

// FindParametersCell returns the first code cell tagged as the parameters
// cell, or nil.
func FindParametersCell(nb *domain.Notebook) *domain.Cell {
	for _, cell := range nb.Cells {
		if cell.Type == domain.CellTypeCode && cell.HasTag(domain.ParametersTag) {
			return cell
		}
	}
	return nil
}

// HideSource flags every code cell as source-hidden for report rendering.
func HideSource(nb *domain.Notebook) {
	for _, cell := range nb.Cells {
		if cell.Type != domain.CellTypeCode {
			continue
		}
		jupyter, ok := cell.Metadata["jupyter"].(map[string]any)
		if !ok {
			jupyter = make(map[string]any)
			cell.Metadata["jupyter"] = jupyter
		}
		jupyter["source_hidden"] = true
	}
}
