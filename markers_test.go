package notemill

import (
	"strings"
	"testing"

	"github.com/aretw0/notemill/pkg/domain"
)

func threeCellNotebook() *domain.Notebook {
	nb := domain.NewNotebook()
	nb.Cells = append(nb.Cells,
		domain.NewCodeCell("a = 1"),
		domain.NewCodeCell("boom"),
		domain.NewCodeCell("never"),
	)
	return nb
}

func TestMarkExecutionError(t *testing.T) {
	nb := threeCellNotebook()
	MarkExecutionError(nb, &domain.ExecutionError{CellIndex: 1, ExecCount: 2, Ename: "ValueError"})

	if len(nb.Cells) != 5 {
		t.Fatalf("len(Cells) = %d, want 5", len(nb.Cells))
	}

	banner := nb.Cells[0]
	if banner.Type != domain.CellTypeMarkdown || !banner.HasTag(domain.ErrorMarkerTag) {
		t.Error("banner missing at index 0")
	}
	if !strings.Contains(banner.Source, "In [2]") {
		t.Errorf("banner = %q, want execution count reference", banner.Source)
	}
	if !strings.Contains(banner.Source, "#"+domain.ErrorAnchorID) {
		t.Errorf("banner = %q, want link to anchor", banner.Source)
	}

	// Anchor sits just before the failing cell, which the banner shifted to 2.
	anchor := nb.Cells[2]
	if !anchor.HasTag(domain.ErrorMarkerTag) || !strings.Contains(anchor.Source, domain.ErrorAnchorID) {
		t.Errorf("anchor misplaced: %q", anchor.Source)
	}
	if nb.Cells[3].Source != "boom" {
		t.Errorf("cell after anchor = %q, want the failing cell", nb.Cells[3].Source)
	}
}

func TestMarkExecutionErrorIndexClamped(t *testing.T) {
	nb := threeCellNotebook()
	MarkExecutionError(nb, &domain.ExecutionError{CellIndex: 99, ExecCount: 3})

	if len(nb.Cells) != 5 {
		t.Fatalf("len(Cells) = %d, want 5", len(nb.Cells))
	}
	last := nb.Cells[len(nb.Cells)-1]
	if !last.HasTag(domain.ErrorMarkerTag) {
		t.Error("out-of-range index should append the anchor at the end")
	}
}

func TestRemoveErrorMarkers(t *testing.T) {
	nb := threeCellNotebook()
	MarkExecutionError(nb, &domain.ExecutionError{CellIndex: 1, ExecCount: 2})

	RemoveErrorMarkers(nb)
	if len(nb.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3", len(nb.Cells))
	}
	for i, cell := range nb.Cells {
		if cell.HasTag(domain.ErrorMarkerTag) {
			t.Errorf("cell %d still tagged", i)
		}
	}

	// Idempotent on a clean notebook.
	RemoveErrorMarkers(nb)
	if len(nb.Cells) != 3 {
		t.Errorf("second pass removed cells: %d", len(nb.Cells))
	}
}

func TestMarkersSurviveRepeatedRuns(t *testing.T) {
	nb := threeCellNotebook()
	for range 3 {
		RemoveErrorMarkers(nb)
		MarkExecutionError(nb, &domain.ExecutionError{CellIndex: 1, ExecCount: 2})
	}
	if len(nb.Cells) != 5 {
		t.Errorf("len(Cells) = %d, want 5 after repeated mark/remove cycles", len(nb.Cells))
	}
}
