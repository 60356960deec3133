package dataprep

import "sort"

// EncodeField maps the distinct values of a categorical column to contiguous
// integer codes, in alphabetical order. The mapping is a bijection and is
// stable across runs for the same set of values.
func EncodeField(values []string) map[string]int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	uniq := make([]string, 0, len(seen))
	for v := range seen {
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)
	codes := make(map[string]int, len(uniq))
	for i, v := range uniq {
		codes[v] = i
	}
	return codes
}
