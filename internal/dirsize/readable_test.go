package dirsize

import "testing"

func TestReadableSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{1, "1 B"},
		{999, "999 B"},
		{1000, "0.98 KB"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1_234_567, "1.18 MB"},
		{100_000_000, "95.37 MB"},
		{150_000_000, "143.05 MB"},
		{1 << 30, "1 GB"},
		{1_000_000_000_000_000, "909.49 TB"},
		{1_000_000_000_000_000_000, "909,494.7 TB"},
	}

	for _, tt := range tests {
		if got := ReadableSize(tt.size); got != tt.want {
			t.Errorf("ReadableSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestReadableSizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", "0 B"},
		{"   ", "0 B"},
		{"abc", "0 B"},
		{"12.5", "0 B"},
		{"0", "0 B"},
		{" 1024 ", "1 KB"},
		{"150000000", "143.05 MB"},
		{"99999999999999999999", "0 B"},
	}

	for _, tt := range tests {
		if got := ReadableSizeString(tt.in); got != tt.want {
			t.Errorf("ReadableSizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
