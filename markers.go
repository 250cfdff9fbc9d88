package notemill

import (
	"fmt"
	"strconv"

	"github.com/aretw0/notemill/pkg/domain"
)

// RemoveErrorMarkers strips every marker cell left by a previous failed run.
// It runs unconditionally at the start of each orchestration pass so markers
// never accumulate across repeated runs on the same file. Calling it on an
// already-clean notebook is a no-op.
func RemoveErrorMarkers(nb *domain.Notebook) {
	kept := nb.Cells[:0]
	for _, cell := range nb.Cells {
		if cell.HasTag(domain.ErrorMarkerTag) {
			continue
		}
		kept = append(kept, cell)
	}
	nb.Cells = kept
}

// MarkExecutionError decorates the notebook with two tagged markdown cells:
// an anchor inserted just before the failing cell and a banner at the top
// linking to it. The anchor goes in first, before the banner shifts every
// index by one.
func MarkExecutionError(nb *domain.Notebook, execErr *domain.ExecutionError) {
	anchor := domain.NewMarkdownCell(domain.ErrorAnchorMessage)
	anchor.AddTag(domain.ErrorMarkerTag)

	banner := domain.NewMarkdownCell(fmt.Sprintf(domain.ErrorBannerTemplate, strconv.Itoa(execErr.ExecCount)))
	banner.AddTag(domain.ErrorMarkerTag)

	index := execErr.CellIndex
	if index > len(nb.Cells) {
		index = len(nb.Cells)
	}
	nb.Cells = append(nb.Cells[:index], append([]*domain.Cell{anchor}, nb.Cells[index:]...)...)
	nb.Cells = append([]*domain.Cell{banner}, nb.Cells...)
}
