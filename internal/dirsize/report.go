package dirsize

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// NoData is the report for a scan without qualifying directories.
const NoData = "no data"

// sizeKey pads the size to 19 digits, enough for any int64, so that comparing
// keys lexically orders by size and then by path.
func sizeKey(r Record) string {
	return fmt.Sprintf("%019d", r.Size) + r.Path
}

// Sorted returns a copy of records ordered by key. Records with equal keys
// keep their relative order.
func Sorted(records []Record, key SortKey) []Record {
	sorted := slices.Clone(records)

	switch key {
	case ByPath:
		slices.SortStableFunc(sorted, func(a, b Record) int {
			return strings.Compare(a.Path, b.Path)
		})
	case ByStructure:
		slices.SortStableFunc(sorted, func(a, b Record) int {
			return cmp.Compare(a.Order, b.Order)
		})
	default:
		slices.SortStableFunc(sorted, func(a, b Record) int {
			return strings.Compare(sizeKey(a), sizeKey(b))
		})
	}

	return sorted
}

// Render returns one line per record in the order selected by key, or a
// single NoData line if there are no records.
func Render(records []Record, key SortKey) []string {
	if len(records) == 0 {
		return []string{NoData}
	}

	sorted := Sorted(records, key)
	lines := make([]string, 0, len(sorted))

	for _, r := range sorted {
		lines = append(lines, r.Line())
	}

	return lines
}

// Report renders the full newline-joined report: a header naming the sort
// mode followed by the rendered lines. Without records it is just NoData.
func Report(records []Record, key SortKey) string {
	if len(records) == 0 {
		return NoData
	}

	return key.Header() + "\n" + strings.Join(Render(records, key), "\n")
}
