package bundle

// SkipReason classifies why a candidate file stayed out of the document.
type SkipReason string

const (
	SkipDecode     SkipReason = "decode-error"      // Bytes not valid in the configured encoding.
	SkipPermission SkipReason = "permission-denied" // The file could not be opened or read.
	SkipNotFile    SkipReason = "not-a-file"        // Anything that is not a readable regular file.
	SkipFiltered   SkipReason = "filtered"          // Excluded by ignore rules or glob filters.
	SkipTooLarge   SkipReason = "too-large"         // Over the configured size cap.
	SkipOutput     SkipReason = "output-file"       // The output document itself, found under a root.
)

// SkipReasons returns every reason in a stable display order.
func SkipReasons() []SkipReason {
	return []SkipReason{
		SkipDecode,
		SkipPermission,
		SkipNotFile,
		SkipFiltered,
		SkipTooLarge,
		SkipOutput,
	}
}

// Outcome is the classification of one walked file: either content bound
// for the document or the reason it stays out.
type Outcome struct {
	Path    string
	Content []byte
	Reason  SkipReason
}

// Included reports whether the file carries content for the document.
func (o Outcome) Included() bool {
	return o.Reason == ""
}

func included(path string, content []byte) Outcome {
	return Outcome{Path: path, Content: content}
}

func skipped(path string, reason SkipReason) Outcome {
	return Outcome{Path: path, Reason: reason}
}
