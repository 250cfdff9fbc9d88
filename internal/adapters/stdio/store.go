// Package stdio implements a notebook store over standard input/output,
// selected by the "-" reference so notebooks can be piped through the CLI.
package stdio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/notemill/pkg/domain"
)

// Store reads notebooks from an input stream and writes them to an output
// stream. The zero value is not usable; use New.
type Store struct {
	in  io.Reader
	out io.Writer
}

// New creates a stdio store bound to the process streams.
func New() *Store {
	return &Store{in: os.Stdin, out: os.Stdout}
}

// NewFromStreams creates a stdio store over arbitrary streams, used in tests.
func NewFromStreams(in io.Reader, out io.Writer) *Store {
	return &Store{in: in, out: out}
}

// Load reads a notebook from the input stream. The ref is ignored.
func (s *Store) Load(ctx context.Context, ref string) (*domain.Notebook, error) {
	data, err := io.ReadAll(s.in)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook from stdin: %w", err)
	}

	var nb domain.Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to decode notebook from stdin: %w", err)
	}
	return &nb, nil
}

// Store writes the notebook to the output stream. The ref is ignored.
func (s *Store) Store(ctx context.Context, nb *domain.Notebook, ref string) error {
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return fmt.Errorf("failed to encode notebook: %w", err)
	}
	data = append(data, '\n')

	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write notebook to stdout: %w", err)
	}
	return nil
}
