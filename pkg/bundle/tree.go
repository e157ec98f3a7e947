// File: pkg/bundle/tree.go
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeloom/pkg/ignore"

	"go.uber.org/zap"
)

// Tree renders a box-drawing view of the directories a bundle run would
// walk, honoring the filters a bundle run would apply but reading no
// file contents. Roots that do not exist contribute nothing.
func Tree(opts Options, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.validateGlobs(); err != nil {
		return "", err
	}

	rules, err := ignore.Load(opts.IgnoreFiles...)
	if err != nil {
		return "", err
	}

	var treeBuilder strings.Builder

	for _, root := range opts.Roots {
		info, err := os.Stat(root)
		if err != nil {
			logger.Warn("Path does not exist or cannot be accessed", zap.String("path", root), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			logger.Warn("Path is not a directory", zap.String("path", root))
			continue
		}

		treeBuilder.WriteString(fmt.Sprintf("%s/\n", filepath.Clean(root)))

		subtree := renderTreeLevel(root, root, opts, rules, "", logger)
		if subtree != "" {
			treeBuilder.WriteString(subtree)
			treeBuilder.WriteString("\n")
		}
	}

	return treeBuilder.String(), nil
}

// renderTreeLevel builds one directory level of the tree recursively,
// directories first, alphabetically within each group.
func renderTreeLevel(directory, root string, opts Options, rules *ignore.RuleSet, prefix string, logger *zap.Logger) string {
	entries, err := os.ReadDir(directory)
	if err != nil {
		logger.Debug("Failed to read directory for tree structure", zap.String("directory", directory), zap.Error(err))
		return ""
	}

	kept := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		entryPath := filepath.Join(directory, entry.Name())
		relPath := relativePath(root, entryPath)
		if entry.IsDir() {
			if rules.MatchesPath(relPath, true) {
				continue
			}
			kept = append(kept, entry)
			continue
		}
		if rules.MatchesPath(relPath, false) {
			continue
		}
		if len(opts.Exclude) > 0 && matchAnyGlob(opts.Exclude, relPath) {
			continue
		}
		if len(opts.Include) > 0 && !matchAnyGlob(opts.Include, relPath) {
			continue
		}
		if opts.MaxFileSize > 0 {
			info, err := entryInfo(entryPath, entry)
			if err != nil {
				logger.Debug("Failed to stat file for tree structure", zap.String("filePath", entryPath), zap.Error(err))
				continue
			}
			if info.Size() > opts.MaxFileSize {
				continue
			}
		}
		kept = append(kept, entry)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].IsDir() != kept[j].IsDir() {
			return kept[i].IsDir()
		}
		return strings.ToLower(kept[i].Name()) < strings.ToLower(kept[j].Name())
	})

	var output []string
	for i, entry := range kept {
		connector := "├── "
		extension := "│   "
		if i == len(kept)-1 {
			connector = "└── "
			extension = "    "
		}

		if entry.IsDir() {
			output = append(output, fmt.Sprintf("%s%s%s/", prefix, connector, entry.Name()))
			subtree := renderTreeLevel(filepath.Join(directory, entry.Name()), root, opts, rules, prefix+extension, logger)
			if subtree != "" {
				output = append(output, subtree)
			}
		} else {
			output = append(output, fmt.Sprintf("%s%s%s", prefix, connector, entry.Name()))
		}
	}

	return strings.Join(output, "\n")
}
