// File: pkg/bundle/traversal.go
package bundle

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"codeloom/pkg/charset"
	"codeloom/pkg/ignore"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// walker drives the ordered, sequential traversal of the configured roots
// and classifies every file it encounters.
type walker struct {
	opts      Options
	rules     *ignore.RuleSet
	enc       *charset.Encoding
	outputAbs string
	logger    *zap.Logger
}

// walk visits every entry under every root in the order given and hands
// each classified outcome to visit. Traversal itself never fails: roots
// that do not exist and entries that cannot be accessed contribute
// nothing. Only errors returned by visit stop the walk, since those come
// from the write side.
func (w *walker) walk(visit func(Outcome) error) error {
	for _, root := range w.opts.Roots {
		info, err := os.Stat(root)
		if err != nil {
			w.logger.Warn("Path does not exist or cannot be accessed", zap.String("path", root), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			w.logger.Warn("Path is not a directory", zap.String("path", root))
			continue
		}

		// WalkDir lstats its root, so a root that is a symlink must be
		// resolved first to walk as the directory it names.
		walkRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			w.logger.Warn("Path cannot be resolved", zap.String("path", root), zap.Error(err))
			continue
		}

		err = filepath.WalkDir(walkRoot, func(entryPath string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				w.logger.Debug("Error accessing path during traversal", zap.String("path", entryPath), zap.Error(walkErr))
				return nil
			}

			relPath := relativePath(walkRoot, entryPath)

			if d.IsDir() {
				if entryPath != walkRoot && w.rules.MatchesPath(relPath, true) {
					w.logger.Debug("Skipping ignored directory during traversal", zap.String("directory", entryPath))
					return filepath.SkipDir
				}
				return nil
			}

			outcome := w.classify(entryPath, relPath, d)
			if !outcome.Included() {
				w.logger.Debug("Skipping file during traversal",
					zap.String("filePath", entryPath),
					zap.String("reason", string(outcome.Reason)))
			}
			return visit(outcome)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// classify decides whether one directory entry belongs in the document.
// Every skip is absorbed here as a reason; read and decode problems never
// propagate as errors.
func (w *walker) classify(entryPath, relPath string, d fs.DirEntry) Outcome {
	if w.outputAbs != "" {
		if abs, err := filepath.Abs(entryPath); err == nil && abs == w.outputAbs {
			return skipped(entryPath, SkipOutput)
		}
	}

	if w.rules.MatchesPath(relPath, false) {
		return skipped(entryPath, SkipFiltered)
	}
	if len(w.opts.Exclude) > 0 && matchAnyGlob(w.opts.Exclude, relPath) {
		return skipped(entryPath, SkipFiltered)
	}
	if len(w.opts.Include) > 0 && !matchAnyGlob(w.opts.Include, relPath) {
		return skipped(entryPath, SkipFiltered)
	}

	info, err := entryInfo(entryPath, d)
	if err != nil {
		return skipped(entryPath, reasonForError(err))
	}
	if !info.Mode().IsRegular() {
		return skipped(entryPath, SkipNotFile)
	}
	if w.opts.MaxFileSize > 0 && info.Size() > w.opts.MaxFileSize {
		return skipped(entryPath, SkipTooLarge)
	}

	raw, err := os.ReadFile(entryPath)
	if err != nil {
		return skipped(entryPath, reasonForError(err))
	}

	content, err := w.enc.Decode(raw)
	if err != nil {
		return skipped(entryPath, SkipDecode)
	}

	return included(entryPath, content)
}

// entryInfo resolves the entry's file info, following symlinks so a link
// to a readable file bundles like the file itself.
func entryInfo(entryPath string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		return os.Stat(entryPath)
	}
	return d.Info()
}

// reasonForError maps a read failure onto its skip reason.
func reasonForError(err error) SkipReason {
	if errors.Is(err, fs.ErrPermission) {
		return SkipPermission
	}
	return SkipNotFile
}

// resolvedAbs returns the absolute form of p with symlinks resolved, so
// identity checks against walked entry paths hold when p sits behind a
// link. When resolution fails the absolute form is returned as is.
func resolvedAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// relativePath returns the slash-separated path of entryPath relative to
// root, for rule and glob matching.
func relativePath(root, entryPath string) string {
	relPath, err := filepath.Rel(root, entryPath)
	if err != nil {
		relPath = entryPath
	}
	return filepath.ToSlash(relPath)
}

// matchAnyGlob reports whether relPath matches any of the given doublestar
// patterns. The bare filename is checked as well, so "*.go" behaves as
// expected at any depth.
func matchAnyGlob(patterns []string, relPath string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
