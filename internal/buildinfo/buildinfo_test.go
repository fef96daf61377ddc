package buildinfo

import "testing"

func TestSummary(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldVersion, oldCommit, oldDate })

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-02T03:04:05Z"
	want := "chatbridge Version: v1.2.3, Commit: abc1234, BuiltAt: 2026-01-02T03:04:05Z"
	if got := Summary(); got != want {
		t.Fatalf("Summary() = %q, want %q", got, want)
	}
}
