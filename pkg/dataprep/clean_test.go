package dataprep

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacetelescope/hellouniverse/pkg/catalog"
)

// header carries all nine columns the cleaner excludes from the features
// (target + baseline + mass + extinction + five flags) plus id, field, and
// one flux/error pair: 13 columns in total.
const testHeader = "id field f_F160W e_F160W use_phot near_star star_flag flags f140w_flag lmass Av z_spec z_peak"

type testRow struct {
	id    int
	field string
	flux  float64
	eflux float64
	lmass float64
	zspec float64
	zpeak float64
}

func buildTable(t *testing.T, rows []testRow) *catalog.Table {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("# " + testHeader + "\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "%d %s %g %g 1 0 0 0 1 %g 0.3 %g %g\n",
			r.id, r.field, r.flux, r.eflux, r.lmass, r.zspec, r.zpeak)
	}
	tab, err := catalog.Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return tab
}

func tenRows() []testRow {
	rows := make([]testRow, 10)
	efluxes := []float64{0.5, 0.4, -99, 0.3, 0.1, 0.2, 0.6, 0.7, -99, 99}
	for i := range rows {
		rows[i] = testRow{
			id:    i + 1,
			field: "AEGIS",
			flux:  10 + float64(i),
			eflux: efluxes[i],
			lmass: 10.5,
			zspec: 1.0 + float64(i)/10,
			zpeak: 1.1,
		}
	}
	// Two sources below (or at) the mass cut.
	rows[8].lmass = 8.0
	rows[9].lmass = 9.0
	return rows
}

func TestCleanMassFilter(t *testing.T) {
	res, err := Clean(buildTable(t, tenRows()), DefaultOptions())
	require.NoError(t, err)

	// 10 rows, 2 at or below the mass cut.
	assert.Len(t, res.X, 8)
	assert.Len(t, res.Y, 8)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, res.RowIndex)
}

func TestCleanTargetFilter(t *testing.T) {
	rows := tenRows()
	rows[3].zspec = -1 // unmeasured sentinel
	rows[5].zspec = 0

	res, err := Clean(buildTable(t, rows), DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, res.X, 6)
	assert.Equal(t, []int{0, 1, 2, 4, 6, 7}, res.RowIndex)
	for _, y := range res.Y {
		assert.Greater(t, y, 0.0)
	}
}

func TestCleanFeatureCount(t *testing.T) {
	tab := buildTable(t, tenRows())
	res, err := Clean(tab, DefaultOptions())
	require.NoError(t, err)

	// 8 named drops plus the target: C - 9 features remain.
	assert.Len(t, res.FeatureNames, tab.NumCols()-9)
	assert.Equal(t, []string{"id", "field", "f_F160W", "e_F160W"}, res.FeatureNames)
	for _, row := range res.X {
		assert.Len(t, row, len(res.FeatureNames))
	}
}

func TestCleanAbsentDropNameIsNoOp(t *testing.T) {
	opts := DefaultOptions()
	opts.Flags = append(opts.Flags, "ghost_flag")

	tab := buildTable(t, tenRows())
	res, err := Clean(tab, opts)
	require.NoError(t, err)
	// The unmatched name silently drops nothing.
	assert.Len(t, res.FeatureNames, tab.NumCols()-9)
}

func TestCleanMissingRequiredColumn(t *testing.T) {
	for _, name := range []string{"z_spec", "lmass", "Av", "field"} {
		opts := DefaultOptions()
		switch name {
		case "z_spec":
			opts.Target = "missing"
		case "lmass":
			opts.Mass = "missing"
		case "Av":
			opts.Extinction = "missing"
		case "field":
			opts.Field = "missing"
		}
		_, err := Clean(buildTable(t, tenRows()), opts)
		var serr *catalog.SchemaError
		require.ErrorAs(t, err, &serr, name)
		assert.Equal(t, "missing", serr.Column)
	}
}

func TestCleanSentinelImputation(t *testing.T) {
	res, err := Clean(buildTable(t, tenRows()), DefaultOptions())
	require.NoError(t, err)

	// Surviving e_F160W values: {0.5 0.4 -99 0.3 0.1 0.2 0.6 0.7}. The
	// median is computed over that snapshot, sentinel included: 0.35. The
	// dropped rows' values (-99, 99) must not contribute.
	j := indexOf(t, res.FeatureNames, "e_F160W")
	assert.InDelta(t, 0.35, res.X[2][j], 1e-12)
	for _, row := range res.X {
		assert.GreaterOrEqual(t, row[j], Sentinel)
	}
}

func TestCleanFieldEncoding(t *testing.T) {
	rows := tenRows()
	rows[0].field = "COSMOS"
	rows[1].field = "GOODS-N"
	rows[2].field = "COSMOS"

	res, err := Clean(buildTable(t, rows), DefaultOptions())
	require.NoError(t, err)

	// Alphabetical over distinct surviving values.
	assert.Equal(t, map[string]int{"AEGIS": 0, "COSMOS": 1, "GOODS-N": 2}, res.FieldCodes)

	j := indexOf(t, res.FeatureNames, "field")
	assert.Equal(t, 1.0, res.X[0][j])
	assert.Equal(t, 2.0, res.X[1][j])
	assert.Equal(t, 1.0, res.X[2][j])
	assert.Equal(t, 0.0, res.X[3][j])
}

func TestCleanTargetValues(t *testing.T) {
	rows := tenRows()
	res, err := Clean(buildTable(t, rows), DefaultOptions())
	require.NoError(t, err)
	for i, r := range res.RowIndex {
		assert.Equal(t, rows[r].zspec, res.Y[i])
	}
}

func indexOf(t *testing.T, names []string, want string) int {
	t.Helper()
	for i, n := range names {
		if n == want {
			return i
		}
	}
	t.Fatalf("feature %q not found in %v", want, names)
	return -1
}
