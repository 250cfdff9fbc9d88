package notemill

import (
	"github.com/aretw0/notemill/pkg/domain"
	"github.com/aretw0/notemill/pkg/params"
)

// prepareMetadata records the resolved input/output references in the
// reserved metadata namespace and applies report-mode source hiding.
func prepareMetadata(nb *domain.Notebook, inputRef, outputRef string, reportMode bool) {
	if reportMode {
		params.HideSource(nb)
	}

	reserved := nb.Reserved()
	reserved["input_path"] = inputRef
	reserved["output_path"] = outputRef
}
