package core

// FileFormat tags the source format a document was converted from.
type FileFormat string

const (
	// FormatMarkdown is the line-oriented heritage markup format.
	FormatMarkdown FileFormat = "markdown"
	// FormatText is plain text, including markup files that carried no
	// recognizable header.
	FormatText FileFormat = "txt"
	// FormatUnknown marks failed conversions.
	FormatUnknown FileFormat = "unknown"
)

// ConversionResult is the outcome of converting one source file into
// clean text. It is shared between the converter registry and the
// individual converters so that neither depends on the other.
//
// A failed conversion sets Success to false and describes the cause in
// Errors; converters never panic or return Go errors across this
// boundary.
type ConversionResult struct {
	Success    bool
	Text       string
	Format     FileFormat
	SourcePath string
	// Encoding is the name of the first encoding that decoded the raw
	// bytes ("utf-8", "utf-8-sig", "cp1256" or "iso-8859-6").
	Encoding string
	// Metadata holds the canonical header fields (book URI, author
	// name, title, ...) extracted by the markup parser.
	Metadata map[string]string
	// RawMeta preserves every non-placeholder header key/value pair as
	// it appeared in the source.
	RawMeta  map[string]string
	Warnings []string
	Errors   []string
}
