package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/notemill"
	"github.com/aretw0/notemill/internal/cli"
	"github.com/aretw0/notemill/internal/logging"
	"github.com/aretw0/notemill/pkg/domain"
)

var executeFlags struct {
	sources   cli.Sources
	injectAll bool

	engine   string
	kernel   string
	language string

	prepareOnly bool
	reportMode  bool
	cwd         string

	progressBar bool
	logOutput   bool
	logLevel    string

	startTimeout     int
	executionTimeout int

	stdoutFile string
	stderrFile string

	saveOnCellExecute bool
	obfuscate         bool
	sensitivePatterns []string
}

var executeCmd = &cobra.Command{
	Use:   "execute INPUT OUTPUT",
	Short: "Parameterize and execute a notebook",
	Long: `Executes INPUT and writes the executed notebook to OUTPUT.

References may be local paths, "-" for stdin/stdout piping, http(s) URLs
(input only), or redis://host:port/db/key. Both references accept {name}
template tokens resolved from parameters plus the built-ins run_uuid and
run_time.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExecute(cmd.Context(), args[0], args[1])
	},
}

func runExecute(ctx context.Context, inputRef, outputRef string) error {
	if executeFlags.injectAll {
		executeFlags.sources.InjectInputPath = true
		executeFlags.sources.InjectOutputPath = true
	}
	parameters, err := executeFlags.sources.Resolve(inputRef, outputRef)
	if err != nil {
		return err
	}

	logger := logging.New(logging.ParseLevel(executeFlags.logLevel))

	engineName := executeFlags.engine
	if engineName == "" {
		engineName = viper.GetString("engine")
	}
	kernelName := executeFlags.kernel
	if kernelName == "" {
		kernelName = viper.GetString("kernel")
	}

	opts := []notemill.Option{
		notemill.WithParameters(parameters),
		notemill.WithEngine(engineName),
		notemill.WithKernelName(kernelName),
		notemill.WithLanguage(executeFlags.language),
		notemill.WithPrepareOnly(executeFlags.prepareOnly),
		notemill.WithReportMode(executeFlags.reportMode),
		notemill.WithCWD(executeFlags.cwd),
		notemill.WithProgressBar(executeFlags.progressBar),
		notemill.WithLogOutput(executeFlags.logOutput),
		notemill.WithStartTimeout(time.Duration(executeFlags.startTimeout) * time.Second),
		notemill.WithRequestSaveOnCellExecute(executeFlags.saveOnCellExecute),
		notemill.WithLogger(logger),
	}
	if executeFlags.executionTimeout > 0 {
		opts = append(opts, notemill.WithExecutionTimeout(time.Duration(executeFlags.executionTimeout)*time.Second))
	}

	var patterns []string
	if len(executeFlags.sensitivePatterns) > 0 {
		patterns = executeFlags.sensitivePatterns
	}
	opts = append(opts, notemill.WithObfuscation(executeFlags.obfuscate, patterns))

	stdoutFile, err := openCaptureFile(executeFlags.stdoutFile)
	if err != nil {
		return err
	}
	if stdoutFile != nil {
		defer stdoutFile.Close()
		opts = append(opts, notemill.WithStdoutFile(stdoutFile))
	}
	stderrFile, err := openCaptureFile(executeFlags.stderrFile)
	if err != nil {
		return err
	}
	if stderrFile != nil {
		defer stderrFile.Close()
		opts = append(opts, notemill.WithStderrFile(stderrFile))
	}

	_, err = notemill.Execute(ctx, inputRef, outputRef, opts...)

	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		fmt.Fprintln(os.Stderr, execErr.Error())
		return fmt.Errorf("notebook execution failed at cell %d", execErr.CellIndex)
	}
	return err
}

func openCaptureFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	return f, nil
}

func init() {
	rootCmd.AddCommand(executeCmd)

	flags := executeCmd.Flags()
	flags.StringArrayVarP(&executeFlags.sources.Pairs, "parameters", "p", nil, "parameter as name=value, typed (True/False/None/int/float/str)")
	flags.StringArrayVarP(&executeFlags.sources.RawPairs, "parameters-raw", "r", nil, "parameter as name=value, injected verbatim")
	flags.StringArrayVarP(&executeFlags.sources.Files, "parameters-file", "f", nil, "YAML or JSON file of parameters")
	flags.StringArrayVarP(&executeFlags.sources.YAML, "parameters-yaml", "y", nil, "YAML mapping of parameters")
	flags.StringArrayVarP(&executeFlags.sources.Base64, "parameters-base64", "b", nil, "base64-encoded YAML mapping of parameters")
	flags.BoolVar(&executeFlags.sources.InjectInputPath, "inject-input-path", false, "add the input reference as parameter input_path")
	flags.BoolVar(&executeFlags.sources.InjectOutputPath, "inject-output-path", false, "add the output reference as parameter output_path")
	flags.BoolVar(&executeFlags.injectAll, "inject-paths", false, "add both references as parameters")

	flags.StringVar(&executeFlags.engine, "engine", "", "execution engine name (default from registry)")
	flags.StringVarP(&executeFlags.kernel, "kernel", "k", "", "kernel name (default from notebook metadata)")
	flags.StringVar(&executeFlags.language, "language", "", "notebook language (default from notebook metadata)")

	flags.BoolVar(&executeFlags.prepareOnly, "prepare-only", false, "parameterize and persist without executing")
	flags.BoolVar(&executeFlags.reportMode, "report-mode", false, "hide code cell sources in the output")
	flags.StringVar(&executeFlags.cwd, "cwd", "", "working directory for execution")

	flags.BoolVar(&executeFlags.progressBar, "progress-bar", true, "render per-cell progress")
	flags.BoolVar(&executeFlags.logOutput, "log-output", false, "mirror cell output to the logger")
	flags.StringVar(&executeFlags.logLevel, "log-level", "INFO", "log level (DEBUG, INFO, WARNING, ERROR)")

	flags.IntVar(&executeFlags.startTimeout, "start-timeout", 60, "seconds to wait for kernel start-up")
	flags.IntVar(&executeFlags.executionTimeout, "execution-timeout", 0, "seconds allowed per cell (0 = unbounded)")

	flags.StringVar(&executeFlags.stdoutFile, "stdout-file", "", "file receiving raw cell stdout")
	flags.StringVar(&executeFlags.stderrFile, "stderr-file", "", "file receiving raw cell stderr")

	flags.BoolVar(&executeFlags.saveOnCellExecute, "request-save-on-cell-execute", true, "save the notebook after each cell")
	flags.BoolVar(&executeFlags.obfuscate, "obfuscate-sensitive-parameters", true, "redact parameters with sensitive names")
	flags.StringArrayVar(&executeFlags.sensitivePatterns, "sensitive-parameter-patterns", nil, "patterns replacing the default sensitive-name set")

	// Bare "notemill IN OUT" behaves like "notemill execute IN OUT".
	rootCmd.Args = executeCmd.Args
	rootCmd.RunE = executeCmd.RunE
	rootCmd.Flags().AddFlagSet(flags)
}
