package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/dirsize/internal/dirsize"
)

// tree creates root/{f:4000, big/{f:3000}, small/{f:10}} and returns root.
func tree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	for rel, size := range map[string]int64{
		"f":       4000,
		"big/f":   3000,
		"small/f": 10,
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := New("v1.2.3").Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestCommandVersion(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}

	if strings.TrimSpace(out) != "v1.2.3" {
		t.Errorf("version output = %q", out)
	}
}

func TestCommandRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	root := tree(t)

	tests := map[string][]string{
		"output":   {"-o", "yaml", root},
		"depth":    {"--max-depth", "-1", root},
		"min-size": {"--min-size", "lots", root},
		"sort":     {"--sort", "name", root},
		"workers":  {"--workers", "-3", root},
		"args":     {root, root},
	}

	for name, args := range tests {
		if _, _, err := run(t, args...); err == nil {
			t.Errorf("%s: expected an error for %v", name, args)
		}
	}
}

func TestCommandInvalidRoot(t *testing.T) {
	t.Parallel()

	root := tree(t)

	for _, path := range []string{filepath.Join(root, "missing"), filepath.Join(root, "f")} {
		_, _, err := run(t, path)
		if !errors.Is(err, dirsize.ErrNotDirectory) {
			t.Errorf("run(%s) error = %v, want ErrNotDirectory", path, err)
		}
	}
}

func TestCommandTable(t *testing.T) {
	t.Parallel()

	root := tree(t)

	out, _, err := run(t, "--min-size", "1KB", root)
	if err != nil {
		t.Fatal(err)
	}

	absRoot, _ := filepath.Abs(root)

	for _, want := range []string{
		"Sorted results by size:",
		"2.93 KB      " + filepath.Join(absRoot, "big"),
		"6.85 KB      " + absRoot,
		"Directories:",
		"Threshold:",
		"Elapsed:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, filepath.Join(absRoot, "small")) {
		t.Errorf("output lists directory below threshold:\n%s", out)
	}

	if strings.Index(out, filepath.Join(absRoot, "big")) > strings.Index(out, "6.85 KB") {
		t.Errorf("size order not ascending:\n%s", out)
	}
}

func TestCommandNoData(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, tree(t))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "\n"+dirsize.NoData+"\n") {
		t.Errorf("expected no data report:\n%s", out)
	}
}

func TestCommandJSON(t *testing.T) {
	t.Parallel()

	root := tree(t)

	out, _, err := run(t, "--min-size", "0", "--max-depth", "1", "--sort", "structure", "-o", "json", root)
	if err != nil {
		t.Fatal(err)
	}

	var result dirsize.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}

	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}

	if result.Params.Sort != dirsize.ByStructure || result.Params.MaxDepth != 1 {
		t.Errorf("params = %+v", result.Params)
	}

	if result.Records[0].Size != 7010 || result.Records[0].Readable != "6.85 KB" {
		t.Errorf("root record = %+v", result.Records[0])
	}
}

func TestCommandPaths(t *testing.T) {
	t.Parallel()

	root := tree(t)
	absRoot, _ := filepath.Abs(root)

	out, _, err := run(t, "--min-size", "0", "--sort", "path", "-o", "paths", root)
	if err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		absRoot,
		filepath.Join(absRoot, "big"),
		filepath.Join(absRoot, "small"),
	}, "\n") + "\n"

	if out != want {
		t.Errorf("paths output =\n%s\nwant\n%s", out, want)
	}
}

func TestParseMinSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"100000000", 100_000_000, false},
		{"", 0, false},
		{"1KB", 1000, false},
		{"1KiB", 1024, false},
		{"1.5 MB", 1_500_000, false},
		{"bogus", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMinSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMinSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}

		if got != tt.want {
			t.Errorf("parseMinSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	progressPrinter(&buf)(dirsize.Record{Path: "/data", Readable: "1 KB"})

	if got := buf.String(); !strings.Contains(got, "Searching… 1 KB         /data") {
		t.Errorf("progress line = %q", got)
	}

	if isTerminal(&buf) {
		t.Error("buffer reported as terminal")
	}
}

func TestPrintTableCancelled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	result := &dirsize.Result{
		Params:      dirsize.DefaultParams(),
		Cancelled:   true,
		Diagnostics: []string{"x"},
	}

	if err := PrintTable(result, nil, &buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{dirsize.NoData, "Status:", "cancelled", "Unreadable:", "95.37 MB (100000000 bytes)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "Filesystem:") {
		t.Errorf("filesystem line without usage:\n%s", out)
	}
}

func TestCommandProgressLinesWithoutTerminal(t *testing.T) {
	t.Parallel()

	root := tree(t)
	absRoot, _ := filepath.Abs(root)

	out, errOut, err := run(t, "--min-size", "0", "--max-depth", "1", "--sort", "path", "-o", "paths", root)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"6.85 KB      " + absRoot,
		"2.93 KB      " + filepath.Join(absRoot, "big"),
		"10 B         " + filepath.Join(absRoot, "small"),
	}

	if errOut != strings.Join(want, "\n")+"\n" {
		t.Errorf("progress lines =\n%s\nwant\n%s", errOut, strings.Join(want, "\n"))
	}

	if strings.Contains(out, "KB") {
		t.Errorf("progress leaked into stdout:\n%s", out)
	}
}
