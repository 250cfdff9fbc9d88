/*
Package notemill orchestrates parameterized execution of notebook documents.

It owns parameter injection, pre/post execution metadata bookkeeping, failure
detection inside engine output, idempotent error annotation of the document,
and secret redaction of injected values. Actual code execution is delegated to
a pluggable engine selected by name from a registry.

# Usage

	nb, err := notemill.Execute(ctx, "input.ipynb", "output.ipynb",
		notemill.WithParameters(params),
		notemill.WithKernelName("python3"),
	)

On a cell failure, Execute persists the output notebook with two marker cells
pointing at the failing cell, then returns a *domain.ExecutionError.
*/
package notemill
