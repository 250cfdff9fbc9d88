package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Notebook is the in-memory representation of an ipynb v4 document: an ordered
// cell list plus document-level metadata. Cell order is execution order.
//
// Fields the orchestrator does not touch are captured verbatim during decode
// and written back unchanged, so a load/store round trip is lossless.
type Notebook struct {
	Cells         []*Cell
	Metadata      map[string]any
	NBFormat      int
	NBFormatMinor int

	extra map[string]json.RawMessage
}

// NewNotebook creates an empty v4 notebook.
func NewNotebook() *Notebook {
	return &Notebook{
		Metadata:      make(map[string]any),
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}

// Cell is a single unit within a Notebook, discriminated by Type. Only code
// cells carry Outputs or an execution count.
type Cell struct {
	Type           string
	ID             string
	Source         string
	Metadata       map[string]any
	Outputs        []*Output
	ExecutionCount *int

	extra map[string]json.RawMessage
}

// NewCodeCell creates a code cell with the given source.
func NewCodeCell(source string) *Cell {
	return &Cell{Type: CellTypeCode, Source: source, Metadata: make(map[string]any), Outputs: []*Output{}}
}

// NewMarkdownCell creates a markdown cell with the given source.
func NewMarkdownCell(source string) *Cell {
	return &Cell{Type: CellTypeMarkdown, Source: source, Metadata: make(map[string]any)}
}

// Output is a single execution result record, discriminated by Type.
type Output struct {
	Type string

	// Stream payload (Type == OutputTypeStream).
	Stream string
	Text   string

	// Error payload (Type == OutputTypeError).
	Ename     string
	Evalue    string
	Traceback []string

	extra map[string]json.RawMessage
}

// NewStreamOutput creates a stream output for the named stream (stdout/stderr).
func NewStreamOutput(stream, text string) *Output {
	return &Output{Type: OutputTypeStream, Stream: stream, Text: text}
}

// NewErrorOutput creates an error output.
func NewErrorOutput(ename, evalue string, traceback []string) *Output {
	return &Output{Type: OutputTypeError, Ename: ename, Evalue: evalue, Traceback: traceback}
}

// Tags returns the cell's tag list from metadata. A missing or malformed tags
// entry yields nil.
func (c *Cell) Tags() []string {
	if c.Metadata == nil {
		return nil
	}
	switch v := c.Metadata["tags"].(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

// HasTag reports whether the cell carries the given tag.
func (c *Cell) HasTag(tag string) bool {
	for _, t := range c.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag to the cell if not already present.
func (c *Cell) AddTag(tag string) {
	if c.HasTag(tag) {
		return
	}
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata["tags"] = append(c.Tags(), tag)
}

// decodeSource accepts the two on-disk source encodings (string or line array)
// and normalizes to a single string.
func decodeSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("source is neither string nor string array: %w", err)
	}
	return strings.Join(lines, ""), nil
}

// UnmarshalJSON decodes a notebook, keeping unknown top-level fields intact.
func (nb *Notebook) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode notebook: %w", err)
	}

	nb.extra = make(map[string]json.RawMessage)
	for key, value := range raw {
		switch key {
		case "cells":
			if err := json.Unmarshal(value, &nb.Cells); err != nil {
				return fmt.Errorf("failed to decode cells: %w", err)
			}
		case "metadata":
			if err := json.Unmarshal(value, &nb.Metadata); err != nil {
				return fmt.Errorf("failed to decode notebook metadata: %w", err)
			}
		case "nbformat":
			if err := json.Unmarshal(value, &nb.NBFormat); err != nil {
				return fmt.Errorf("failed to decode nbformat: %w", err)
			}
		case "nbformat_minor":
			if err := json.Unmarshal(value, &nb.NBFormatMinor); err != nil {
				return fmt.Errorf("failed to decode nbformat_minor: %w", err)
			}
		default:
			nb.extra[key] = value
		}
	}

	if nb.Metadata == nil {
		nb.Metadata = make(map[string]any)
	}
	return nil
}

// MarshalJSON serializes the notebook, restoring preserved unknown fields.
func (nb *Notebook) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4+len(nb.extra))
	cells := nb.Cells
	if cells == nil {
		cells = []*Cell{}
	}
	out["cells"] = cells
	metadata := nb.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	out["metadata"] = metadata
	out["nbformat"] = nb.NBFormat
	out["nbformat_minor"] = nb.NBFormatMinor
	for key, value := range nb.extra {
		out[key] = value
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a cell, normalizing its source and keeping unknown
// fields intact.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode cell: %w", err)
	}

	c.extra = make(map[string]json.RawMessage)
	for key, value := range raw {
		switch key {
		case "cell_type":
			if err := json.Unmarshal(value, &c.Type); err != nil {
				return fmt.Errorf("failed to decode cell_type: %w", err)
			}
		case "id":
			if err := json.Unmarshal(value, &c.ID); err != nil {
				return fmt.Errorf("failed to decode cell id: %w", err)
			}
		case "source":
			source, err := decodeSource(value)
			if err != nil {
				return err
			}
			c.Source = source
		case "metadata":
			if err := json.Unmarshal(value, &c.Metadata); err != nil {
				return fmt.Errorf("failed to decode cell metadata: %w", err)
			}
		case "outputs":
			if err := json.Unmarshal(value, &c.Outputs); err != nil {
				return fmt.Errorf("failed to decode cell outputs: %w", err)
			}
		case "execution_count":
			if string(value) != "null" {
				var count int
				if err := json.Unmarshal(value, &count); err != nil {
					return fmt.Errorf("failed to decode execution_count: %w", err)
				}
				c.ExecutionCount = &count
			}
		default:
			c.extra[key] = value
		}
	}

	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	return nil
}

// MarshalJSON serializes the cell. Code cells always carry outputs and an
// execution_count entry, per the notebook format.
func (c *Cell) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 6+len(c.extra))
	out["cell_type"] = c.Type
	out["source"] = c.Source
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	out["metadata"] = metadata
	if c.ID != "" {
		out["id"] = c.ID
	}
	if c.Type == CellTypeCode {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []*Output{}
		}
		out["outputs"] = outputs
		out["execution_count"] = c.ExecutionCount
	}
	for key, value := range c.extra {
		out[key] = value
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an output record, keeping unknown fields intact.
func (o *Output) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode output: %w", err)
	}

	o.extra = make(map[string]json.RawMessage)
	for key, value := range raw {
		switch key {
		case "output_type":
			if err := json.Unmarshal(value, &o.Type); err != nil {
				return fmt.Errorf("failed to decode output_type: %w", err)
			}
		case "name":
			if err := json.Unmarshal(value, &o.Stream); err != nil {
				return fmt.Errorf("failed to decode stream name: %w", err)
			}
		case "text":
			text, err := decodeSource(value)
			if err != nil {
				return fmt.Errorf("failed to decode stream text: %w", err)
			}
			o.Text = text
		case "ename":
			if err := json.Unmarshal(value, &o.Ename); err != nil {
				return fmt.Errorf("failed to decode ename: %w", err)
			}
		case "evalue":
			if err := json.Unmarshal(value, &o.Evalue); err != nil {
				return fmt.Errorf("failed to decode evalue: %w", err)
			}
		case "traceback":
			if err := json.Unmarshal(value, &o.Traceback); err != nil {
				return fmt.Errorf("failed to decode traceback: %w", err)
			}
		default:
			o.extra[key] = value
		}
	}
	return nil
}

// MarshalJSON serializes the output with the payload fields of its kind.
func (o *Output) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4+len(o.extra))
	out["output_type"] = o.Type
	switch o.Type {
	case OutputTypeStream:
		out["name"] = o.Stream
		out["text"] = o.Text
	case OutputTypeError:
		out["ename"] = o.Ename
		out["evalue"] = o.Evalue
		traceback := o.Traceback
		if traceback == nil {
			traceback = []string{}
		}
		out["traceback"] = traceback
	}
	for key, value := range o.extra {
		out[key] = value
	}
	return json.Marshal(out)
}
