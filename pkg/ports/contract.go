package ports

import (
	"context"
	"testing"

	"github.com/aretw0/notemill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunNotebookStoreContract verifies that a NotebookStore implementation
// adheres to the interface contract. refFor maps a logical name to a
// store-specific reference (file path, redis key, ...).
func RunNotebookStoreContract(t *testing.T, store NotebookStore, refFor func(name string) string) {
	ctx := context.Background()

	t.Run("Store and Load", func(t *testing.T) {
		nb := domain.NewNotebook()
		nb.Metadata["kernelspec"] = map[string]any{"name": "python3", "language": "python"}
		cell := domain.NewCodeCell("a = 2")
		cell.AddTag(domain.ParametersTag)
		nb.Cells = append(nb.Cells, cell, domain.NewMarkdownCell("# Title"))

		ref := refFor("roundtrip")
		require.NoError(t, store.Store(ctx, nb, ref), "Store should not return error")

		loaded, err := store.Load(ctx, ref)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Cells, 2)
		assert.Equal(t, "a = 2", loaded.Cells[0].Source)
		assert.True(t, loaded.Cells[0].HasTag(domain.ParametersTag))
		assert.Equal(t, domain.CellTypeMarkdown, loaded.Cells[1].Type)

		name, err := loaded.KernelName()
		require.NoError(t, err)
		assert.Equal(t, "python3", name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, refFor("does-not-exist"))
		assert.Error(t, err)
	})

	t.Run("Store Empty Ref Is NoOp", func(t *testing.T) {
		assert.NoError(t, store.Store(ctx, domain.NewNotebook(), ""))
	})
}
