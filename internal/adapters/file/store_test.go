package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/notemill/pkg/ports"
)

func TestFileStoreContract(t *testing.T) {
	dir := t.TempDir()
	ports.RunNotebookStoreContract(t, New(), func(name string) string {
		return filepath.Join(dir, name+".ipynb")
	})
}

func TestStoreCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	store := New()
	path := filepath.Join(dir, "deep", "nested", "out.ipynb")

	nb, err := store.Load(context.Background(), "testdata/simple.ipynb")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := store.Store(context.Background(), nb, path); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestRoundTripPreservesForeignFields(t *testing.T) {
	store := New()
	ctx := context.Background()

	nb, err := store.Load(ctx, "testdata/simple.ipynb")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.ipynb")
	if err := store.Store(ctx, nb, out); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	encoded := string(data)
	for _, fragment := range []string{
		`"widgets"`,
		`"attachments"`,
		`"scrolled"`,
	} {
		if !strings.Contains(encoded, fragment) {
			t.Errorf("round trip lost %s", fragment)
		}
	}
	if !strings.HasSuffix(encoded, "\n") {
		t.Error("output should end with a newline")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := New().Load(context.Background(), "testdata/nope.ipynb"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ipynb")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New().Load(context.Background(), path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
