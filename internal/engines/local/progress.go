package local

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// renderProgress writes a single styled progress line to stderr, keeping
// stdout clean for piped notebooks.
func renderProgress(current, total int) {
	p := termenv.ColorProfile()
	label := termenv.String(fmt.Sprintf("Executing cell %d/%d", current, total)).Foreground(p.Color("#818cf8"))
	fmt.Fprintf(os.Stderr, "%s\n", label)
}
