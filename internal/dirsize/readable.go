package dirsize

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

//nolint:gochecknoglobals // Unit table
var units = [...]string{"B", "KB", "MB", "GB", "TB"}

// ReadableSize formats a byte count with up to two decimals and a binary unit,
// e.g. 1024 -> "1 KB" and 150000000 -> "143.05 MB".
//
// The unit is picked by the number of decimal digits (floor(log10(n)/3)) while
// the divisor is a power of 1024, so 1000 renders as "0.98 KB".
// Sizes beyond the terabyte range stay in TB.
func ReadableSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	idx := min((len(strconv.FormatInt(size, 10))-1)/3, len(units)-1)
	value := float64(size) / float64(uint64(1)<<(10*idx))
	value = math.RoundToEven(value*100) / 100

	return humanize.CommafWithDigits(value, 2) + " " + units[idx]
}

// ReadableSizeString is ReadableSize for raw user input. Empty or malformed
// input renders as "0 B".
func ReadableSizeString(s string) string {
	size, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "0 B"
	}

	return ReadableSize(size)
}
