package domain

// Cell and output type discriminators as used by the on-disk notebook format.
const (
	CellTypeCode     = "code"
	CellTypeMarkdown = "markdown"
	CellTypeRaw      = "raw"

	OutputTypeError         = "error"
	OutputTypeStream        = "stream"
	OutputTypeDisplayData   = "display_data"
	OutputTypeExecuteResult = "execute_result"
)

// MetadataKey is the reserved namespace under which Notemill records its own
// state in notebook and cell metadata. It must never collide with unrelated
// metadata keys; accessors create it on demand.
const MetadataKey = "notemill"

// Reserved cell tags. ParametersTag marks the user-designated cell whose
// source is replaced with injected parameter assignments. ErrorMarkerTag marks
// the ephemeral failure-annotation cells so a later run can strip them.
const (
	ParametersTag  = "parameters"
	ErrorMarkerTag = "notemill-error-cell-tag"
)

// ParametersHeader is the comment line prepended to the injected parameters
// cell source.
const ParametersHeader = "# Parameters"

// RedactionMarker replaces the value of any parameter whose name matches a
// sensitive pattern.
const RedactionMarker = "********"

// CleanExitName is the error name used by interpreters to signal a clean early
// exit. An error output with this name and an empty or "0" value is benign.
const CleanExitName = "SystemExit"

// FallbackErrorName is the error name synthesized when a cell's metadata marks
// it as failed but no error output is present.
const FallbackErrorName = "CellExecutionError"

const errorStyle = `style="color:red; font-family:Helvetica Neue, Helvetica, Arial, sans-serif; font-size:2em;"`

// ErrorAnchorID is the HTML anchor the failure banner links to.
const ErrorAnchorID = "notemill-error-cell"

// ErrorBannerTemplate renders the banner cell inserted at the top of a failed
// notebook. It interpolates the failing cell's execution count.
const ErrorBannerTemplate = `<span ` + errorStyle + `>An Exception was encountered at '<a href="#` + ErrorAnchorID + `">In [%s]</a>'.</span>`

// ErrorAnchorMessage is the fixed source of the anchor cell inserted just
// before the failing cell.
const ErrorAnchorMessage = `<span id="` + ErrorAnchorID + `" ` + errorStyle + `>Execution using notemill encountered an exception here and stopped:</span>`
