// Package bundle walks ordered directory roots and concatenates every
// readable text file into a single output document. Each file is framed by
// a comment line carrying its name; files that cannot be read or decoded
// are skipped and tallied, never fatal. The only side effect of a run is
// the output file itself.
package bundle

import (
	"fmt"
	"path/filepath"
	"time"

	"codeloom/pkg/charset"
	"codeloom/pkg/ignore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run executes one bundling pass over opts.Roots and writes the combined
// document to opts.Output. The returned report carries the run's tallies.
//
// Failures on the output side are fatal: an unknown encoding, or any
// failure to lock, open, or write the output file. Failures on the read
// side never are; they become skip tallies in the report.
func Run(opts Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	enc, err := charset.Lookup(opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve encoding: %w", err)
	}

	rules, err := ignore.Load(opts.IgnoreFiles...)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.With(zap.String("runId", runID))
	start := time.Now()

	log.Debug("Starting bundle run",
		zap.Strings("roots", opts.Roots),
		zap.String("outputPath", opts.Output),
		zap.String("encoding", enc.Name))

	doc, err := openDocument(opts.Output, enc)
	if err != nil {
		return nil, err
	}

	report := newReport(runID, opts)
	estimator := newTokenEstimator()
	w := &walker{
		opts:      opts,
		rules:     rules,
		enc:       enc,
		outputAbs: resolvedAbs(opts.Output),
		logger:    log,
	}

	err = w.walk(func(outcome Outcome) error {
		report.observe(outcome)
		if !outcome.Included() {
			return nil
		}
		section := sectionBytes(filepath.Base(outcome.Path), outcome.Content)
		if err := doc.writeSection(section); err != nil {
			return err
		}
		report.BytesWritten += int64(len(outcome.Content))
		report.EstimatedTokens += estimator.count(section)
		log.Debug("Bundled file", zap.String("filePath", outcome.Path))
		return nil
	})
	if err != nil {
		doc.abort(log)
		return nil, err
	}

	if err := doc.Close(); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	log.Info("Combined files written",
		zap.String("outputPath", report.Output),
		zap.Int("filesScanned", report.FilesScanned),
		zap.Int("filesBundled", report.FilesBundled),
		zap.Int("filesSkipped", report.TotalSkipped()),
		zap.Int64("contentBytes", report.BytesWritten),
		zap.Duration("duration", report.Duration))
	return report, nil
}
