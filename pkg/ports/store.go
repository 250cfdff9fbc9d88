package ports

import (
	"context"

	"github.com/aretw0/notemill/pkg/domain"
)

// NotebookStore is the persistence capability for notebook documents.
// Implementations must round-trip every field they do not understand
// byte-for-byte (see domain.Notebook's preserved extra fields).
type NotebookStore interface {
	// Load reads the notebook at ref.
	Load(ctx context.Context, ref string) (*domain.Notebook, error)

	// Store writes the notebook to ref. An empty ref is a no-op, so callers
	// can pass through an unset output reference unconditionally.
	Store(ctx context.Context, nb *domain.Notebook, ref string) error
}
