// Package ignore implements gitignore-style rule matching for pruning
// walks. Rules are matched with doublestar glob semantics against
// slash-separated paths relative to the walk root.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule is one compiled pattern line with metadata about its origin.
type Rule struct {
	Pattern string // Glob pattern ready for matching.
	Negate  bool   // Indicates the pattern re-includes matches (starts with '!').
	DirOnly bool   // Pattern applies to directories only (ends with '/').
	Line    string // Original pattern line.
	LineNo  int    // Line number in the source (1-based).
}

// RuleSet is an ordered collection of ignore rules. Rules apply in order
// and the last match decides, matching gitignore behavior.
type RuleSet struct {
	Rules []Rule
}

// Load parses the named rule files into a single ordered set. A file that
// cannot be read is an error: explicitly listed rule files are part of the
// run's configuration, not optional input.
func Load(paths ...string) (*RuleSet, error) {
	set := &RuleSet{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ignore file %s: %w", path, err)
		}
		err = set.parse(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

// ParseLines compiles pattern lines directly, for rules that do not come
// from a file.
func ParseLines(lines ...string) (*RuleSet, error) {
	set := &RuleSet{}
	for i, line := range lines {
		rule, ok, err := parseRuleLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			set.Rules = append(set.Rules, rule)
		}
	}
	return set, nil
}

func (s *RuleSet) parse(r io.Reader, name string) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rule, ok, err := parseRuleLine(scanner.Text(), lineNo)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		if ok {
			s.Rules = append(s.Rules, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ignore file %s: %w", name, err)
	}
	return nil
}

// MatchesPath checks if a root-relative path is excluded by the rule set.
func (s *RuleSet) MatchesPath(relPath string, isDir bool) bool {
	normalized := normalizePath(relPath)

	matched := false
	for _, rule := range s.Rules {
		if rule.matches(normalized, isDir) {
			matched = !rule.Negate
		}
	}
	return matched
}

// matches reports whether the rule covers the given path. A rule naming a
// directory also covers everything beneath it.
func (r Rule) matches(relPath string, isDir bool) bool {
	if ok, _ := doublestar.Match(r.Pattern, relPath); ok {
		return !r.DirOnly || isDir
	}
	if ok, _ := doublestar.Match(r.Pattern+"/**", relPath); ok {
		return true
	}
	return false
}

// normalizePath converts OS-specific path separators to forward slashes.
func normalizePath(path string) string {
	return filepath.ToSlash(path)
}

// parseRuleLine processes one line from an ignore file. Blank lines and
// comments yield no rule.
func parseRuleLine(line string, lineNo int) (Rule, bool, error) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Rule{}, false, nil
	}

	rule := Rule{Line: line, LineNo: lineNo}

	if strings.HasPrefix(trimmed, "!") {
		rule.Negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	// Escaped leading '#' or '!' are literal.
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	if strings.HasSuffix(trimmed, "/") {
		rule.DirOnly = true
		trimmed = strings.TrimSuffix(trimmed, "/")
	}

	// A leading slash anchors the pattern to the root; a pattern without
	// any slash matches at every depth.
	anchored := strings.HasPrefix(trimmed, "/")
	if anchored {
		trimmed = strings.TrimPrefix(trimmed, "/")
	} else if !strings.Contains(trimmed, "/") {
		trimmed = "**/" + trimmed
	}

	if trimmed == "" || !doublestar.ValidatePattern(trimmed) {
		return Rule{}, false, fmt.Errorf("invalid pattern %q", line)
	}

	rule.Pattern = trimmed
	return rule, true, nil
}
