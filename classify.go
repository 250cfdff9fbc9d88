package notemill

import (
	"context"
	"errors"

	"github.com/aretw0/notemill/pkg/domain"
	"github.com/aretw0/notemill/pkg/ports"
)

// ClassifyFailure scans the notebook in document order for the first failing
// code cell and returns its ExecutionError, or nil when execution was clean.
//
// An error output carrying the clean-exit signal with an empty or "0" value
// is benign: it suppresses only itself, so a real error in a later output of
// the same cell is still detected. The reserved per-cell exception flag is a
// fallback used only when a cell has no error output and no clean-exit
// signal; the first failure found either way stops the scan.
func ClassifyFailure(nb *domain.Notebook) *domain.ExecutionError {
	for index, cell := range nb.Cells {
		if cell.Type != domain.CellTypeCode {
			continue
		}

		execCount := 0
		if cell.ExecutionCount != nil {
			execCount = *cell.ExecutionCount
		}

		cleanExit := false
		for _, output := range cell.Outputs {
			if output.Type != domain.OutputTypeError {
				continue
			}
			if output.Ename == domain.CleanExitName && (output.Evalue == "" || output.Evalue == "0") {
				cleanExit = true
				continue
			}
			return &domain.ExecutionError{
				CellIndex: index,
				ExecCount: execCount,
				Source:    cell.Source,
				Ename:     output.Ename,
				Evalue:    output.Evalue,
				Traceback: output.Traceback,
			}
		}

		if cleanExit {
			continue
		}
		if record, err := cell.CellRecord(); err == nil && record.Exception {
			return &domain.ExecutionError{
				CellIndex: index,
				ExecCount: execCount,
				Source:    cell.Source,
				Ename:     domain.FallbackErrorName,
				Evalue:    "",
				Traceback: []string{},
			}
		}
	}
	return nil
}

// raiseForExecutionErrors persists the failure-annotated notebook before
// surfacing the error, so the caller always has a saved artifact pointing at
// the failing cell.
func raiseForExecutionErrors(ctx context.Context, nb *domain.Notebook, store ports.NotebookStore, outputRef string) error {
	execErr := ClassifyFailure(nb)
	if execErr == nil {
		return nil
	}

	MarkExecutionError(nb, execErr)
	if err := store.Store(ctx, nb, outputRef); err != nil {
		return errors.Join(execErr, err)
	}
	return execErr
}
