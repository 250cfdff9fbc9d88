package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// RunRecord is the typed view of the reserved document-level metadata
// namespace. It uses "mapstructure" tags to match the persisted JSON keys.
type RunRecord struct {
	InputPath  string         `json:"input_path" mapstructure:"input_path"`
	OutputPath string         `json:"output_path" mapstructure:"output_path"`
	Parameters map[string]any `json:"parameters" mapstructure:"parameters"`
}

// CellRecord is the typed view of the reserved cell-level metadata namespace.
type CellRecord struct {
	// Exception is set by engines when a cell raised during execution but did
	// not report an error output.
	Exception bool `json:"exception" mapstructure:"exception"`

	// Duration and status are informational engine bookkeeping.
	Duration float64 `json:"duration" mapstructure:"duration"`
	Status   string  `json:"status" mapstructure:"status"`
}

// Reserved returns the reserved metadata namespace of the notebook, creating
// it if absent.
func (nb *Notebook) Reserved() map[string]any {
	if nb.Metadata == nil {
		nb.Metadata = make(map[string]any)
	}
	ns, ok := nb.Metadata[MetadataKey].(map[string]any)
	if !ok {
		ns = make(map[string]any)
		nb.Metadata[MetadataKey] = ns
	}
	return ns
}

// RunRecord decodes the reserved document namespace into its typed form.
// A missing namespace decodes to the zero record.
func (nb *Notebook) RunRecord() (RunRecord, error) {
	var record RunRecord
	ns, ok := nb.Metadata[MetadataKey]
	if !ok {
		return record, nil
	}
	if err := mapstructure.Decode(ns, &record); err != nil {
		return record, fmt.Errorf("failed to decode %s metadata: %w", MetadataKey, err)
	}
	return record, nil
}

// Reserved returns the reserved metadata namespace of the cell, creating it if
// absent.
func (c *Cell) Reserved() map[string]any {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	ns, ok := c.Metadata[MetadataKey].(map[string]any)
	if !ok {
		ns = make(map[string]any)
		c.Metadata[MetadataKey] = ns
	}
	return ns
}

// CellRecord decodes the reserved cell namespace into its typed form.
// A missing namespace decodes to the zero record.
func (c *Cell) CellRecord() (CellRecord, error) {
	var record CellRecord
	if c.Metadata == nil {
		return record, nil
	}
	ns, ok := c.Metadata[MetadataKey]
	if !ok {
		return record, nil
	}
	if err := mapstructure.Decode(ns, &record); err != nil {
		return record, fmt.Errorf("failed to decode %s cell metadata: %w", MetadataKey, err)
	}
	return record, nil
}

// KernelName returns the kernelspec name from notebook metadata, or
// ErrMissingKernelSpec when absent.
func (nb *Notebook) KernelName() (string, error) {
	spec, ok := nb.Metadata["kernelspec"].(map[string]any)
	if !ok {
		return "", ErrMissingKernelSpec
	}
	name, _ := spec["name"].(string)
	if name == "" {
		return "", ErrMissingKernelSpec
	}
	return name, nil
}

// Language returns the notebook's language from kernelspec or language_info
// metadata, falling back to the empty string.
func (nb *Notebook) Language() string {
	if spec, ok := nb.Metadata["kernelspec"].(map[string]any); ok {
		if lang, _ := spec["language"].(string); lang != "" {
			return lang
		}
	}
	if info, ok := nb.Metadata["language_info"].(map[string]any); ok {
		if lang, _ := info["name"].(string); lang != "" {
			return lang
		}
	}
	return ""
}
