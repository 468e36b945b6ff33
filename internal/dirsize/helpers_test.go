package dirsize

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates path with the given logical size, creating parents.
func writeFile(t *testing.T, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	if err := f.Truncate(size); err != nil {
		t.Fatalf("sizing %s: %v", path, err)
	}
}

// fixtureTree builds:
//
//	root/            f 100      total 29160
//	  a/             f 1000     total 26000
//	    a1/          f 5000     total 25000
//	      a1x/       f 20000    total 20000
//	  b/             f 50       total 50
//	  c/             f 3000     total 3010
//	    c1/          f 10       total 10
func fixtureTree(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "root")

	writeFile(t, filepath.Join(root, "f"), 100)
	writeFile(t, filepath.Join(root, "a", "f"), 1000)
	writeFile(t, filepath.Join(root, "a", "a1", "f"), 5000)
	writeFile(t, filepath.Join(root, "a", "a1", "a1x", "f"), 20000)
	writeFile(t, filepath.Join(root, "b", "f"), 50)
	writeFile(t, filepath.Join(root, "c", "f"), 3000)
	writeFile(t, filepath.Join(root, "c", "c1", "f"), 10)

	return root
}

func collect(t *testing.T, seq func(func(Record) bool)) []Record {
	t.Helper()

	var records []Record
	for r := range seq {
		records = append(records, r)
	}

	return records
}

func paths(root string, records []Record) []string {
	out := make([]string, 0, len(records))

	for _, r := range records {
		rel, err := filepath.Rel(root, r.Path)
		if err != nil {
			rel = r.Path
		}

		out = append(out, filepath.ToSlash(rel))
	}

	return out
}
