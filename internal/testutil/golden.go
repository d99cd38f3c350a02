package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between want and got, or "" when equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

// TextEqual fails the test with a unified diff if got != want.
func TextEqual(t testing.TB, want, got string, msgAndArgs ...any) {
	t.Helper()
	if diff := Diff(want, got); diff != "" {
		t.Fatalf("%s\n%s", formatMsg(msgAndArgs), diff)
	}
}

// Golden compares got against testdata/<name>. With UPDATE_GOLDEN=1 set
// the file is rewritten instead.
func Golden(t testing.TB, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("failed to update golden %s: %v", path, err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden %s: %v", path, err)
	}
	TextEqual(t, string(want), got, "golden %s", name)
}
