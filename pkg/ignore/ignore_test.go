package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLines_SkipsCommentsAndBlanks(t *testing.T) {
	set, err := ParseLines("# comment", "", "   ", "*.log", "!keep.log")
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	if len(set.Rules) != 2 {
		t.Fatalf("rules=%d, want 2", len(set.Rules))
	}
	if !set.Rules[1].Negate {
		t.Fatal("second rule should be negated")
	}
	if set.Rules[0].LineNo != 4 || set.Rules[1].LineNo != 5 {
		t.Fatalf("line numbers wrong: %d, %d", set.Rules[0].LineNo, set.Rules[1].LineNo)
	}
}

func TestParseLines_RejectsInvalidPattern(t *testing.T) {
	if _, err := ParseLines("["); err == nil {
		t.Fatal("expected an error for an unclosed character class")
	}
}

func TestMatchesPath(t *testing.T) {
	set, err := ParseLines(
		"*.log",
		"!important.log",
		"build/",
		"/rooted.txt",
		"docs/*.md",
		"**/vendor",
	)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"a/b/c.log", false, true},
		{"c.log", false, true},
		{"important.log", false, false},
		{"a/important.log", false, false},
		{"build", true, true},
		{"build/x.txt", false, true},
		{"build", false, false}, // dir-only rule does not match a plain file
		{"rooted.txt", false, true},
		{"sub/rooted.txt", false, false},
		{"docs/a.md", false, true},
		{"other/docs/a.md", false, false},
		{"vendor", true, true},
		{"vendor/pkg/a.go", false, true},
		{"a.txt", false, false},
	}
	for _, tt := range tests {
		if got := set.MatchesPath(tt.path, tt.isDir); got != tt.want {
			t.Errorf("MatchesPath(%q, dir=%v)=%v, want %v", tt.path, tt.isDir, got, tt.want)
		}
	}
}

func TestMatchesPath_LastMatchWins(t *testing.T) {
	set, err := ParseLines("!keep.log", "*.log")
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	// The negation comes first, so the later broad rule overrides it.
	if !set.MatchesPath("keep.log", false) {
		t.Fatal("later rule should win over an earlier negation")
	}
}

func TestLoad_ReadsFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	if err := os.WriteFile(first, []byte("*.log\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(second, []byte("!keep.log\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	set, err := Load(first, second)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.MatchesPath("keep.log", false) {
		t.Fatal("second file's negation should win")
	}
	if !set.MatchesPath("other.log", false) {
		t.Fatal("first file's rule should still apply")
	}
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected an error for a missing rule file")
	}
}

func TestLoad_NoFilesMatchesNothing(t *testing.T) {
	set, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.MatchesPath("anything.txt", false) {
		t.Fatal("an empty set must not match")
	}
}
