// Package cli resolves command-line parameter sources into the typed
// parameter set handed to the orchestrator.
package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notemill/pkg/domain"
)

// ResolveType converts a raw CLI value into its typed form: True/False,
// None, integers, floats, everything else stays a string.
func ResolveType(value string) any {
	switch value {
	case "True":
		return true
	case "False":
		return false
	case "None":
		return nil
	}
	if isInt(value) {
		n, _ := strconv.Atoi(value)
		return n
	}
	if isFloat(value) {
		f, _ := strconv.ParseFloat(value, 64)
		return f
	}
	return value
}

func isInt(value string) bool {
	_, err := strconv.Atoi(value)
	return err == nil
}

func isFloat(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// Sources aggregates every way parameters reach the CLI. Resolution order
// is files, yaml literals, base64 blobs, typed pairs, raw pairs, injected
// paths; later sources override earlier ones.
type Sources struct {
	Files  []string
	YAML   []string
	Base64 []string

	// Pairs and RawPairs hold name=value strings. Pairs go through
	// ResolveType; RawPairs are injected verbatim.
	Pairs    []string
	RawPairs []string

	InjectInputPath  bool
	InjectOutputPath bool
}

// Resolve merges every source into a single ordered parameter set.
func (s Sources) Resolve(inputRef, outputRef string) (*domain.Parameters, error) {
	merged := domain.NewParameters()

	for _, path := range s.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read parameters file: %w", err)
		}
		decoded, err := DecodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode parameters file %s: %w", path, err)
		}
		merged.Merge(decoded)
	}

	for _, literal := range s.YAML {
		decoded, err := DecodeYAML([]byte(literal))
		if err != nil {
			return nil, fmt.Errorf("failed to decode parameters yaml: %w", err)
		}
		merged.Merge(decoded)
	}

	for _, blob := range s.Base64 {
		data, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 parameters: %w", err)
		}
		decoded, err := DecodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 parameters: %w", err)
		}
		merged.Merge(decoded)
	}

	for _, pair := range s.Pairs {
		name, value, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		merged.Set(name, ResolveType(value))
	}

	for _, pair := range s.RawPairs {
		name, value, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		merged.Set(name, domain.Raw(value))
	}

	if s.InjectInputPath {
		merged.Set("input_path", inputRef)
	}
	if s.InjectOutputPath {
		merged.Set("output_path", outputRef)
	}

	return merged, nil
}

func splitPair(pair string) (string, string, error) {
	name, value, found := strings.Cut(pair, "=")
	if !found || name == "" {
		return "", "", fmt.Errorf("invalid parameter %q: expected name=value", pair)
	}
	return name, value, nil
}

// DecodeYAML decodes a YAML (or JSON) mapping into an ordered parameter set,
// preserving document order.
func DecodeYAML(data []byte) (*domain.Parameters, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	parameters := domain.NewParameters()
	if root.Kind == 0 || len(root.Content) == 0 {
		return parameters, nil
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of parameter names to values")
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		var value any
		if err := mapping.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode parameter %q: %w", key, err)
		}
		parameters.Set(key, value)
	}
	return parameters, nil
}
