package notemill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/notemill/internal/engines/local"
	"github.com/aretw0/notemill/internal/iorw"
	"github.com/aretw0/notemill/internal/logging"
	"github.com/aretw0/notemill/internal/workdir"
	"github.com/aretw0/notemill/pkg/domain"
	"github.com/aretw0/notemill/pkg/observability"
	"github.com/aretw0/notemill/pkg/params"
	"github.com/aretw0/notemill/pkg/ports"
	"github.com/aretw0/notemill/pkg/registry"
)

// DefaultRegistry holds the engines available to Execute when no custom
// registry is supplied. The local subprocess engine is registered at process
// start as the default.
var DefaultRegistry = func() *registry.Registry {
	r := registry.New()
	if err := r.Register(local.Name, local.New()); err != nil {
		panic(err)
	}
	return r
}()

type options struct {
	parameters        *domain.Parameters
	engineName        string
	kernelName        string
	language          string
	prepareOnly       bool
	reportMode        bool
	cwd               string
	progressBar       bool
	logOutput         bool
	startTimeout      time.Duration
	executionTimeout  time.Duration
	stdoutFile        io.Writer
	stderrFile        io.Writer
	obfuscate         bool
	sensitivePatterns []string
	saveOnCellExecute bool
	logger            *slog.Logger
	store             ports.NotebookStore
	registry          *registry.Registry
	metrics           *observability.Metrics
}

func defaultOptions() *options {
	return &options{
		parameters:        domain.NewParameters(),
		progressBar:       true,
		startTimeout:      60 * time.Second,
		obfuscate:         true,
		saveOnCellExecute: true,
		logger:            logging.NewNop(),
		registry:          DefaultRegistry,
	}
}

// Option configures a single orchestration call.
type Option func(*options)

// WithParameters supplies the parameter set to inject. Order is preserved in
// the rendered parameters cell.
func WithParameters(parameters *domain.Parameters) Option {
	return func(o *options) {
		if parameters != nil {
			o.parameters = parameters
		}
	}
}

// WithEngine selects the execution engine by registry name.
func WithEngine(name string) Option {
	return func(o *options) {
		o.engineName = name
	}
}

// WithKernelName forces the kernel instead of resolving it from notebook
// metadata.
func WithKernelName(name string) Option {
	return func(o *options) {
		o.kernelName = name
	}
}

// WithLanguage forces the notebook language used for parameter rendering and
// inference.
func WithLanguage(language string) Option {
	return func(o *options) {
		o.language = language
	}
}

// WithPrepareOnly parameterizes and persists the notebook without executing.
func WithPrepareOnly(prepareOnly bool) Option {
	return func(o *options) {
		o.prepareOnly = prepareOnly
	}
}

// WithReportMode hides code cell sources for report rendering.
func WithReportMode(reportMode bool) Option {
	return func(o *options) {
		o.reportMode = reportMode
	}
}

// WithCWD executes the notebook inside dir. The change is process-global and
// serialized across concurrent orchestrations.
func WithCWD(dir string) Option {
	return func(o *options) {
		o.cwd = dir
	}
}

// WithProgressBar toggles per-cell progress rendering.
func WithProgressBar(enabled bool) Option {
	return func(o *options) {
		o.progressBar = enabled
	}
}

// WithLogOutput mirrors cell output to the logger.
func WithLogOutput(enabled bool) Option {
	return func(o *options) {
		o.logOutput = enabled
	}
}

// WithStartTimeout bounds kernel startup.
func WithStartTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.startTimeout = timeout
	}
}

// WithExecutionTimeout bounds each cell's execution.
func WithExecutionTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.executionTimeout = timeout
	}
}

// WithStdoutFile streams raw cell stdout to w during execution.
func WithStdoutFile(w io.Writer) Option {
	return func(o *options) {
		o.stdoutFile = w
	}
}

// WithStderrFile streams raw cell stderr to w during execution.
func WithStderrFile(w io.Writer) Option {
	return func(o *options) {
		o.stderrFile = w
	}
}

// WithObfuscation toggles redaction of sensitive parameter values. A non-nil
// patterns list fully replaces the default sensitive-name patterns.
func WithObfuscation(enabled bool, patterns []string) Option {
	return func(o *options) {
		o.obfuscate = enabled
		o.sensitivePatterns = patterns
	}
}

// WithRequestSaveOnCellExecute asks the engine to persist the notebook after
// each cell.
func WithRequestSaveOnCellExecute(enabled bool) Option {
	return func(o *options) {
		o.saveOnCellExecute = enabled
	}
}

// WithLogger sets the structured logger for orchestration diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStore injects a custom notebook store, bypassing the default
// scheme-dispatching store.
func WithStore(store ports.NotebookStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRegistry injects a custom engine registry.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithMetrics records run counters and durations on the given metric set.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Execute orchestrates a single notebook run: it resolves the input and
// output references, loads the document, injects parameters, prepares
// metadata, strips stale error markers, delegates to the selected engine, and
// persists the result.
//
// On a cell failure the output notebook is persisted with marker cells
// flagging the failing cell before a *domain.ExecutionError is returned.
// Engine and I/O errors propagate unchanged.
func Execute(ctx context.Context, inputRef, outputRef string, opts ...Option) (*domain.Notebook, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = iorw.New()
	}

	started := time.Now()
	nb, err := execute(ctx, inputRef, outputRef, o)
	if o.metrics != nil {
		outcome := "succeeded"
		if err != nil {
			outcome = "failed"
		}
		o.metrics.ObserveRun(o.engineName, outcome, time.Since(started).Seconds())
	}
	return nb, err
}

func execute(ctx context.Context, inputRef, outputRef string, o *options) (*domain.Notebook, error) {
	templateParams := params.AddBuiltins(o.parameters)
	inputRef, err := params.ResolveTemplate(inputRef, templateParams)
	if err != nil {
		return nil, err
	}
	outputRef, err = params.ResolveTemplate(outputRef, templateParams)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With("notebook", inputRef)
	logger.Info("input notebook", "path", inputRef)
	logger.Info("output notebook", "path", outputRef)

	nb, err := o.store.Load(ctx, inputRef)
	if err != nil {
		return nil, err
	}

	if o.parameters.Len() > 0 {
		declared := params.InferParameterNames(nb)
		o.parameters.Range(func(name string, _ any) bool {
			if !params.HasDeclared(declared, name) {
				logger.Warn("passed unknown parameter", "name", name)
			}
			return true
		})

		err = params.Inject(nb, o.parameters, params.InjectOptions{
			Language:          o.language,
			ReportMode:        o.reportMode,
			Obfuscate:         o.obfuscate,
			SensitivePatterns: o.sensitivePatterns,
		})
		if err != nil {
			return nil, err
		}
	}

	prepareMetadata(nb, inputRef, outputRef, o.reportMode)
	RemoveErrorMarkers(nb)

	if !o.prepareOnly {
		engine, err := o.registry.Get(o.engineName)
		if err != nil {
			return nil, err
		}
		kernelName, err := engine.KernelName(nb, o.kernelName)
		if err != nil {
			return nil, err
		}

		engineOutput := outputRef
		if !o.saveOnCellExecute {
			engineOutput = ""
		}

		nb, err = executeWithEngine(ctx, engine, nb, o, ports.ExecuteOptions{
			InputRef:         inputRef,
			OutputRef:        engineOutput,
			KernelName:       kernelName,
			ProgressBar:      o.progressBar,
			LogOutput:        o.logOutput,
			StartTimeout:     o.startTimeout,
			ExecutionTimeout: o.executionTimeout,
			StdoutFile:       o.stdoutFile,
			StderrFile:       o.stderrFile,
			Store:            o.store,
			Logger:           logger,
		})
		if err != nil {
			return nil, err
		}

		// Check for cell errors first; this persists the marked notebook
		// before surfacing the failure.
		if err := raiseForExecutionErrors(ctx, nb, o.store, outputRef); err != nil {
			return nb, err
		}
	}

	// Final write covers the prepare-only path and engines that do not save
	// per cell.
	if err := o.store.Store(ctx, nb, outputRef); err != nil {
		return nb, err
	}
	return nb, nil
}

// executeWithEngine runs the engine inside the scoped working directory,
// guaranteeing restoration on every exit path.
func executeWithEngine(ctx context.Context, engine ports.Engine, nb *domain.Notebook, o *options, execOpts ports.ExecuteOptions) (*domain.Notebook, error) {
	restore, err := workdir.Scope(o.cwd)
	if err != nil {
		return nil, err
	}
	defer restore()

	result, err := engine.Execute(ctx, nb, execOpts)
	if err != nil {
		return nil, fmt.Errorf("engine execution failed: %w", err)
	}
	return result, nil
}
