package local

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/notemill/internal/logging"
	"github.com/aretw0/notemill/pkg/domain"
	"github.com/aretw0/notemill/pkg/ports"
)

func requireInterpreter(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func shellNotebook(sources ...string) *domain.Notebook {
	nb := domain.NewNotebook()
	nb.Metadata["kernelspec"] = map[string]any{"name": "sh", "language": "sh"}
	for _, source := range sources {
		nb.Cells = append(nb.Cells, domain.NewCodeCell(source))
	}
	return nb
}

func baseOptions() ports.ExecuteOptions {
	return ports.ExecuteOptions{
		KernelName: "sh",
		Logger:     logging.NewNop(),
	}
}

func TestKernelName(t *testing.T) {
	e := New()
	nb := shellNotebook()

	name, err := e.KernelName(nb, "")
	if err != nil {
		t.Fatalf("KernelName() error = %v", err)
	}
	if name != "sh" {
		t.Errorf("KernelName() = %q, want sh from metadata", name)
	}

	name, _ = e.KernelName(nb, "python3")
	if name != "python3" {
		t.Errorf("KernelName() = %q, want the hint to win", name)
	}

	if _, err := e.KernelName(domain.NewNotebook(), ""); !errors.Is(err, domain.ErrMissingKernelSpec) {
		t.Errorf("error = %v, want ErrMissingKernelSpec", err)
	}
}

func TestExecuteStreamsAndMetadata(t *testing.T) {
	requireInterpreter(t, "sh")

	nb := shellNotebook("echo hello", "echo oops >&2")
	result, err := New().Execute(context.Background(), nb, baseOptions())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	first := result.Cells[0]
	if first.ExecutionCount == nil || *first.ExecutionCount != 1 {
		t.Errorf("execution_count = %v, want 1", first.ExecutionCount)
	}
	if len(first.Outputs) != 1 || first.Outputs[0].Stream != "stdout" || first.Outputs[0].Text != "hello\n" {
		t.Errorf("outputs = %+v", first.Outputs)
	}

	second := result.Cells[1]
	if len(second.Outputs) != 1 || second.Outputs[0].Stream != "stderr" {
		t.Errorf("outputs = %+v", second.Outputs)
	}

	record, err := first.CellRecord()
	if err != nil {
		t.Fatalf("CellRecord() error = %v", err)
	}
	if record.Status != "completed" {
		t.Errorf("status = %q", record.Status)
	}
	if record.Duration <= 0 {
		t.Errorf("duration = %v, want > 0", record.Duration)
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	requireInterpreter(t, "sh")

	nb := shellNotebook("echo before", "echo failing >&2; exit 3", "echo never")
	result, err := New().Execute(context.Background(), nb, baseOptions())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	failed := result.Cells[1]
	var errOut *domain.Output
	for _, out := range failed.Outputs {
		if out.Type == domain.OutputTypeError {
			errOut = out
		}
	}
	if errOut == nil {
		t.Fatal("failing cell has no error output")
	}
	if errOut.Ename != ExitErrorName || errOut.Evalue != "3" {
		t.Errorf("error output = %s: %s", errOut.Ename, errOut.Evalue)
	}
	if len(errOut.Traceback) == 0 || !strings.Contains(errOut.Traceback[0], "failing") {
		t.Errorf("traceback = %v, want stderr lines", errOut.Traceback)
	}

	record, _ := failed.CellRecord()
	if !record.Exception || record.Status != "failed" {
		t.Errorf("record = %+v", record)
	}

	// Execution stops at the failure.
	if result.Cells[2].ExecutionCount != nil {
		t.Error("cell after the failure was executed")
	}
}

func TestExecuteEmptyStderrTraceback(t *testing.T) {
	requireInterpreter(t, "sh")

	nb := shellNotebook("exit 1")
	result, err := New().Execute(context.Background(), nb, baseOptions())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := result.Cells[0].Outputs[0]
	if out.Type != domain.OutputTypeError {
		t.Fatalf("output type = %q", out.Type)
	}
	if out.Traceback == nil || len(out.Traceback) != 0 {
		t.Errorf("traceback = %#v, want empty slice", out.Traceback)
	}
}

func TestExecuteUnknownKernel(t *testing.T) {
	_, err := New().Execute(context.Background(), shellNotebook(), ports.ExecuteOptions{KernelName: "fortran"})
	if !errors.Is(err, ErrUnknownKernel) {
		t.Errorf("error = %v, want ErrUnknownKernel", err)
	}
}

func TestExecuteTimeout(t *testing.T) {
	requireInterpreter(t, "sh")

	opts := baseOptions()
	opts.ExecutionTimeout = 100 * time.Millisecond

	nb := shellNotebook("sleep 5")
	_, err := New().Execute(context.Background(), nb, opts)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v", err)
	}
}

func TestExecuteCaptureFiles(t *testing.T) {
	requireInterpreter(t, "sh")

	var stdout, stderr bytes.Buffer
	opts := baseOptions()
	opts.StdoutFile = &stdout
	opts.StderrFile = &stderr

	nb := shellNotebook("echo out", "echo err >&2")
	if _, err := New().Execute(context.Background(), nb, opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stdout.String() != "out\n" {
		t.Errorf("stdout capture = %q", stdout.String())
	}
	if stderr.String() != "err\n" {
		t.Errorf("stderr capture = %q", stderr.String())
	}
}

func TestExecuteSavesPerCell(t *testing.T) {
	requireInterpreter(t, "sh")

	store := &countingStore{}
	opts := baseOptions()
	opts.OutputRef = "out"
	opts.Store = store

	nb := shellNotebook("echo 1", "echo 2")
	if _, err := New().Execute(context.Background(), nb, opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want one per cell", store.saves)
	}
}

func TestWithInterpreter(t *testing.T) {
	requireInterpreter(t, "sh")

	e := New(WithInterpreter("custom", "sh", "-e"))
	opts := baseOptions()
	opts.KernelName = "custom"

	nb := shellNotebook("true")
	if _, err := e.Execute(context.Background(), nb, opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

type countingStore struct {
	saves int
}

func (s *countingStore) Load(ctx context.Context, ref string) (*domain.Notebook, error) {
	return nil, errors.New("not implemented")
}

func (s *countingStore) Store(ctx context.Context, nb *domain.Notebook, ref string) error {
	s.saves++
	return nil
}
