package bundle

import (
	"time"

	"github.com/tiktoken-go/tokenizer"
)

// Report summarizes one completed bundling run.
type Report struct {
	RunID           string
	Output          string
	Encoding        string
	Roots           []string
	FilesScanned    int
	FilesBundled    int
	Skipped         map[SkipReason]int
	BytesWritten    int64
	EstimatedTokens int
	Duration        time.Duration
}

func newReport(runID string, opts Options) *Report {
	return &Report{
		RunID:    runID,
		Output:   opts.Output,
		Encoding: opts.Encoding,
		Roots:    opts.Roots,
		Skipped:  make(map[SkipReason]int),
	}
}

// observe folds one classified file into the tallies.
func (r *Report) observe(o Outcome) {
	r.FilesScanned++
	if o.Included() {
		r.FilesBundled++
		return
	}
	r.Skipped[o.Reason]++
}

// TotalSkipped returns the number of scanned files left out of the document.
func (r *Report) TotalSkipped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// tokenEstimator counts BPE tokens for written sections so the report can
// say what the document costs as model context. Counting is advisory: any
// tokenizer failure degrades to an estimate of zero.
type tokenEstimator struct {
	codec tokenizer.Codec
}

func newTokenEstimator() tokenEstimator {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return tokenEstimator{}
	}
	return tokenEstimator{codec: codec}
}

func (t tokenEstimator) count(section []byte) int {
	if t.codec == nil {
		return 0
	}
	ids, _, err := t.codec.Encode(string(section))
	if err != nil {
		return 0
	}
	return len(ids)
}
