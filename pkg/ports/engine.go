package ports

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/notemill/pkg/domain"
)

// ExecuteOptions carries the execution knobs passed through to an engine.
// Timeout enforcement is the engine's responsibility; the orchestrator only
// forwards the values.
type ExecuteOptions struct {
	// InputRef is the resolved input reference, informational for the engine.
	InputRef string

	// OutputRef, when non-empty, requests that the engine persist the notebook
	// through Store after each cell completes.
	OutputRef string

	// KernelName names the kernel to execute against, already resolved via
	// Engine.KernelName.
	KernelName string

	// ProgressBar enables per-cell progress rendering.
	ProgressBar bool

	// LogOutput mirrors cell output to the logger as it is produced.
	LogOutput bool

	// StartTimeout bounds kernel startup; zero means the engine default.
	StartTimeout time.Duration

	// ExecutionTimeout bounds each cell's execution; zero means unbounded.
	ExecutionTimeout time.Duration

	// StdoutFile and StderrFile, when set, receive raw cell output streams.
	StdoutFile io.Writer
	StderrFile io.Writer

	// Store is used for incremental per-cell persistence when OutputRef is set.
	Store NotebookStore

	// Logger receives engine diagnostics. Never nil when handed out by the
	// orchestrator.
	Logger *slog.Logger
}

// Engine is the pluggable execution capability: given a notebook, it runs the
// code cells against a live kernel and returns the (possibly partially-run)
// notebook with outputs and metadata populated.
//
// Engines are opaque to the orchestrator; they may stream, save incrementally,
// or parallelize internally. Failures inside cells are reported through cell
// outputs or the reserved cell metadata, not through the returned error, which
// is reserved for transport/kernel-level faults.
type Engine interface {
	// KernelName resolves the kernel to use for the notebook. An empty hint
	// means the engine should derive it from notebook metadata.
	KernelName(nb *domain.Notebook, hint string) (string, error)

	// Execute runs the notebook and returns it with per-cell outputs and
	// execution metadata populated.
	Execute(ctx context.Context, nb *domain.Notebook, opts ExecuteOptions) (*domain.Notebook, error)
}
