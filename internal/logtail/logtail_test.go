package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listkeeper.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestTail(t *testing.T) {
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	logPath := writeLog(t, content.String())

	tests := []struct {
		name     string
		n        int
		expected []string
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"partial", 5, expectedAll[5:]},
		{"exactly all", 10, expectedAll},
		{"more than exists", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, tt.n)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Fatalf("Tail() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil || got != nil {
		t.Fatalf("Tail(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestTail_NoTrailingNewlineAndCRLF(t *testing.T) {
	path := writeLog(t, "one\r\ntwo\r\nthree")
	got, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if diff := cmp.Diff([]string{"two", "three"}, got); diff != "" {
		t.Fatalf("Tail() mismatch (-want +got):\n%s", diff)
	}
}

func TestTail_SpansChunks(t *testing.T) {
	var content strings.Builder
	for i := 1; i <= 3000; i++ {
		fmt.Fprintf(&content, "GET /compras request=%04d status=200\n", i)
	}
	path := writeLog(t, content.String())

	got, err := Tail(path, 400)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(got) != 400 {
		t.Fatalf("len(Tail()) = %d, want 400", len(got))
	}
	if got[0] != "GET /compras request=2601 status=200" {
		t.Fatalf("first line = %q, want request 2601", got[0])
	}
	if got[399] != "GET /compras request=3000 status=200" {
		t.Fatalf("last line = %q, want request 3000", got[399])
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Severity
	}{
		{"2026/10/15 10:00:00 GET /compras request=abc status=200", Info},
		{"2026/10/15 10:00:00 POST /compras request=abc status=500", Failure},
		{"2026/10/15 10:00:00 DELETE /compras/3 request=abc status=404", Failure},
		{"2026/10/15 10:00:00 GET /compras request=abc: dial tcp: connection refused", Failure},
		{"2026/10/15 10:00:00 shopping: create failed: boom", Failure},
		{"2026/10/15 10:00:00 listkeeper starting: base_url=http://127.0.0.1:3000 tab=contacts", Info},
		{"", Info},
	}
	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Fatalf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
