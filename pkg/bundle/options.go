package bundle

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures a single bundling run. Defaults live in the CLI
// layer; the zero values here are deliberate so library callers state
// exactly what they want.
type Options struct {
	Roots       []string // Directories to walk, in order. Order is significant.
	Output      string   // Path of the combined output file.
	Encoding    string   // IANA character set name used for reading and writing.
	Include     []string // Glob allowlist; empty means every file is a candidate.
	Exclude     []string // Glob denylist applied to files.
	IgnoreFiles []string // Gitignore-style rule files to load.
	MaxFileSize int64    // Per-file size cap in bytes; 0 means unlimited.
}

func (o Options) validate() error {
	if o.Output == "" {
		return errors.New("output path must not be empty")
	}
	if o.Encoding == "" {
		return errors.New("encoding must not be empty")
	}
	if o.MaxFileSize < 0 {
		return errors.New("max file size must not be negative")
	}
	return o.validateGlobs()
}

// validateGlobs rejects malformed include and exclude patterns before
// any traversal starts; a pattern that cannot match is a configuration
// error, not an empty filter.
func (o Options) validateGlobs() error {
	for _, pattern := range o.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern %q", pattern)
		}
	}
	for _, pattern := range o.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}
