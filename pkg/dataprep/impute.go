package dataprep

import (
	"strings"

	"github.com/montanaflynn/stats"
)

// Sentinel is the cutoff below which a photometric error value counts as
// missing. The catalog records unmeasured errors as -99.
const Sentinel = -90.0

// IsErrorColumn reports whether a column holds photometric flux errors.
// Error columns are named after their band with an "e" prefix, e.g. e_F160W.
func IsErrorColumn(name string) bool {
	return strings.HasPrefix(name, "e") && strings.HasSuffix(name, "W")
}

// ImputeSentinels replaces values below the sentinel cutoff with the column
// median. The median is computed over the column as given, sentinels
// included, before any substitution: the replacement values all come from
// the same pre-imputation snapshot.
func ImputeSentinels(col []float64) ([]float64, error) {
	med, err := stats.Median(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		if v < Sentinel {
			out[i] = med
		} else {
			out[i] = v
		}
	}
	return out, nil
}
