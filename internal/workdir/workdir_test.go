package workdir

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScopeChangesAndRestores(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	restore, err := Scope(dir)
	if err != nil {
		t.Fatalf("Scope() error = %v", err)
	}

	inside, _ := os.Getwd()
	resolved, _ := filepath.EvalSymlinks(dir)
	if inside != dir && inside != resolved {
		t.Errorf("wd = %q, want %q", inside, dir)
	}

	if err := restore(); err != nil {
		t.Fatalf("restore() error = %v", err)
	}
	after, _ := os.Getwd()
	if after != before {
		t.Errorf("wd = %q, want restored %q", after, before)
	}
}

func TestScopeRestoreIdempotent(t *testing.T) {
	restore, err := Scope(t.TempDir())
	if err != nil {
		t.Fatalf("Scope() error = %v", err)
	}
	if err := restore(); err != nil {
		t.Fatalf("restore() error = %v", err)
	}
	// A second call must not unlock twice or chdir again.
	if err := restore(); err != nil {
		t.Errorf("second restore() error = %v", err)
	}
}

func TestScopeEmptyDirIsNoOp(t *testing.T) {
	before, _ := os.Getwd()

	restore, err := Scope("")
	if err != nil {
		t.Fatalf("Scope(\"\") error = %v", err)
	}
	after, _ := os.Getwd()
	if after != before {
		t.Error("empty scope changed the working directory")
	}
	if err := restore(); err != nil {
		t.Errorf("restore() error = %v", err)
	}
}

func TestScopeMissingDir(t *testing.T) {
	if _, err := Scope(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for nonexistent directory")
	}

	// The lock must have been released; a follow-up scope succeeds.
	restore, err := Scope(t.TempDir())
	if err != nil {
		t.Fatalf("Scope() after failure error = %v", err)
	}
	_ = restore()
}

func TestScopeSerializesConcurrentUse(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	done := make(chan struct{})
	restoreA, err := Scope(dirA)
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		restoreB, err := Scope(dirB)
		if err == nil {
			_ = restoreB()
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("second scope acquired while the first was held")
	default:
	}

	_ = restoreA()
	<-done
}
