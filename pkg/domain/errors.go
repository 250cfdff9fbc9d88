package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingKernelSpec is returned when no kernel name is given and the
// notebook metadata carries no kernelspec to resolve one from.
var ErrMissingKernelSpec = errors.New("notebook has no kernelspec metadata")

// ExecutionError is the structured failure produced when a code cell's
// execution is detected to have failed. It is immutable once created and is
// used both to report the failure to the caller and to render the marker
// cells.
type ExecutionError struct {
	CellIndex int
	ExecCount int
	Source    string
	Ename     string
	Evalue    string
	Traceback []string
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "execution failed at cell %d (In [%d]): %s", e.CellIndex, e.ExecCount, e.Ename)
	if e.Evalue != "" {
		fmt.Fprintf(&b, ": %s", e.Evalue)
	}
	if len(e.Traceback) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(e.Traceback, "\n"))
	}
	return b.String()
}
