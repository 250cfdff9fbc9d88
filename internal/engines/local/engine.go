// Package local implements an execution engine that runs code cells as local
// subprocesses, mapping the notebook's kernel name to an interpreter.
//
// It exists so notebooks execute end to end without an external kernel
// server. Cell failures are reported through error outputs and the reserved
// cell metadata; interpreter startup problems and timeouts surface as engine
// errors.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/notemill/pkg/domain"
	"github.com/aretw0/notemill/pkg/ports"
)

// Name is the registry name of this engine.
const Name = "local"

// ErrUnknownKernel is returned when no interpreter is mapped to the resolved
// kernel name.
var ErrUnknownKernel = errors.New("no interpreter for kernel")

// ExitErrorName is the error name attached to cells whose interpreter exited
// non-zero.
const ExitErrorName = "NonZeroExit"

// Engine executes code cells by piping their source to an interpreter
// subprocess, one process per cell.
type Engine struct {
	interpreters map[string][]string
}

// Option configures the engine.
type Option func(*Engine)

// WithInterpreter maps a kernel name to an interpreter argv. The cell source
// is supplied on the interpreter's stdin.
func WithInterpreter(kernel string, argv ...string) Option {
	return func(e *Engine) {
		e.interpreters[kernel] = argv
	}
}

// New creates the engine with the default kernel-to-interpreter mapping.
func New(opts ...Option) *Engine {
	e := &Engine{
		interpreters: map[string][]string{
			"python3": {"python3"},
			"python":  {"python3"},
			"bash":    {"bash"},
			"sh":      {"sh"},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.Engine = (*Engine)(nil)

// KernelName resolves the kernel: an explicit hint wins, otherwise the
// notebook's kernelspec metadata decides.
func (e *Engine) KernelName(nb *domain.Notebook, hint string) (string, error) {
	if hint != "" {
		return hint, nil
	}
	return nb.KernelName()
}

// Execute runs every code cell in document order, populating outputs,
// execution counts, and the reserved cell metadata. Execution stops at the
// first failing cell, mirroring kernel clients; remaining cells keep their
// pre-run state.
func (e *Engine) Execute(ctx context.Context, nb *domain.Notebook, opts ports.ExecuteOptions) (*domain.Notebook, error) {
	argv, ok := e.interpreters[opts.KernelName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, opts.KernelName)
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("interpreter %q unavailable: %w", argv[0], err)
	}

	total := 0
	for _, cell := range nb.Cells {
		if cell.Type == domain.CellTypeCode {
			total++
		}
	}

	executed := 0
	for _, cell := range nb.Cells {
		if cell.Type != domain.CellTypeCode {
			continue
		}
		executed++
		if opts.ProgressBar {
			renderProgress(executed, total)
		}

		failed, err := e.runCell(ctx, cell, executed, argv, opts)
		if err != nil {
			return nb, err
		}

		if opts.OutputRef != "" && opts.Store != nil {
			if err := opts.Store.Store(ctx, nb, opts.OutputRef); err != nil {
				return nb, fmt.Errorf("failed to save notebook after cell %d: %w", executed, err)
			}
		}
		if failed {
			break
		}
	}
	return nb, nil
}

// runCell executes a single cell. The returned bool reports whether the cell
// failed; the returned error is reserved for engine-level faults.
func (e *Engine) runCell(ctx context.Context, cell *domain.Cell, count int, argv []string, opts ports.ExecuteOptions) (bool, error) {
	runCtx := ctx
	if opts.ExecutionTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.ExecutionTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(cell.Source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := cmd.Run()
	duration := time.Since(started)

	if runCtx.Err() != nil {
		return false, fmt.Errorf("cell %d timed out after %s: %w", count, opts.ExecutionTimeout, runCtx.Err())
	}

	cell.Outputs = nil
	cell.ExecutionCount = &count
	if stdout.Len() > 0 {
		cell.Outputs = append(cell.Outputs, domain.NewStreamOutput("stdout", stdout.String()))
	}
	if stderr.Len() > 0 {
		cell.Outputs = append(cell.Outputs, domain.NewStreamOutput("stderr", stderr.String()))
	}

	if opts.StdoutFile != nil {
		_, _ = opts.StdoutFile.Write(stdout.Bytes())
	}
	if opts.StderrFile != nil {
		_, _ = opts.StderrFile.Write(stderr.Bytes())
	}
	if opts.LogOutput && opts.Logger != nil {
		if stdout.Len() > 0 {
			opts.Logger.Info("cell output", "cell", count, "stream", "stdout", "text", stdout.String())
		}
		if stderr.Len() > 0 {
			opts.Logger.Info("cell output", "cell", count, "stream", "stderr", "text", stderr.String())
		}
	}

	reserved := cell.Reserved()
	reserved["duration"] = duration.Seconds()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		reserved["status"] = "completed"
		return false, nil
	case errors.As(runErr, &exitErr):
		code := exitErr.ExitCode()
		traceback := []string{}
		if trimmed := strings.TrimRight(stderr.String(), "\n"); trimmed != "" {
			traceback = strings.Split(trimmed, "\n")
		}
		cell.Outputs = append(cell.Outputs, domain.NewErrorOutput(ExitErrorName, strconv.Itoa(code), traceback))
		reserved["status"] = "failed"
		reserved["exception"] = true
		return true, nil
	default:
		return false, fmt.Errorf("cell %d failed to start: %w", count, runErr)
	}
}
