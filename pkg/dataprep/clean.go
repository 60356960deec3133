// Package dataprep turns a raw photometric catalog into a feature matrix and
// target vector ready for the tree learners. Cleaning is a fixed sequence of
// pure steps; each consumes the previous step's output and nothing is
// mutated in place.
package dataprep

import (
	"github.com/pkg/errors"

	"github.com/spacetelescope/hellouniverse/pkg/catalog"
)

// Domain constants for the 3D-HST style catalog. Sources below the mass cut
// have incomplete wavelength coverage; non-positive z_spec marks an
// unmeasured spectroscopic redshift.
const (
	DefaultMassThreshold   = 9.0
	DefaultTargetThreshold = 0.0
)

// Options names the catalog columns the cleaner operates on.
type Options struct {
	Target     string   // regression target (z_spec)
	Baseline   string   // photometric estimate kept out of the features (z_peak)
	Mass       string   // log stellar mass estimate
	Extinction string   // dust extinction estimate
	Field      string   // categorical survey field name
	Flags      []string // quality flag columns excluded from the features

	MassThreshold   float64
	TargetThreshold float64
}

// DefaultOptions returns the column names used by the published catalog.
func DefaultOptions() Options {
	return Options{
		Target:          "z_spec",
		Baseline:        "z_peak",
		Mass:            "lmass",
		Extinction:      "Av",
		Field:           "field",
		Flags:           []string{"use_phot", "near_star", "star_flag", "flags", "f140w_flag"},
		MassThreshold:   DefaultMassThreshold,
		TargetThreshold: DefaultTargetThreshold,
	}
}

// Result is the cleaned dataset. RowIndex[i] is the row of the raw table
// that produced row i of X, so predictions can be re-joined to auxiliary
// catalog columns afterwards.
type Result struct {
	X            [][]float64
	Y            []float64
	FeatureNames []string
	RowIndex     []int
	FieldCodes   map[string]int
}

// Clean runs the full cleaning sequence: mass row filter, feature column
// selection, target row filter, field-name encoding, and sentinel
// imputation. The raw table is not modified.
func Clean(tab *catalog.Table, opts Options) (*Result, error) {
	if err := checkSchema(tab, opts); err != nil {
		return nil, err
	}

	mass, err := tab.Floats(opts.Mass)
	if err != nil {
		return nil, err
	}
	target, err := tab.Floats(opts.Target)
	if err != nil {
		return nil, err
	}

	// Row filters: the mass cut, then the unmeasured-redshift cut.
	var rows []int
	for i := 0; i < tab.NumRows(); i++ {
		if mass[i] > opts.MassThreshold && target[i] > opts.TargetThreshold {
			rows = append(rows, i)
		}
	}

	// Feature columns: everything except the target, the baseline estimate,
	// the mass and extinction estimates, and the quality flags. Absent names
	// in the drop list are ignored (see catalog.Table.DropColumns).
	drop := append([]string{opts.Target, opts.Baseline, opts.Mass, opts.Extinction}, opts.Flags...)
	features := tab.DropColumns(drop...).Select(rows)

	fields, err := features.Strings(opts.Field)
	if err != nil {
		return nil, err
	}
	codes := EncodeField(fields)

	names := features.Names()
	x := make([][]float64, features.NumRows())
	for i := range x {
		x[i] = make([]float64, len(names))
	}
	for j, name := range names {
		var col []float64
		if name == opts.Field {
			col = make([]float64, len(fields))
			for i, v := range fields {
				col[i] = float64(codes[v])
			}
		} else {
			col, err = features.Floats(name)
			if err != nil {
				return nil, errors.Wrapf(err, "dataprep: feature %q is not numeric", name)
			}
			if IsErrorColumn(name) {
				col, err = ImputeSentinels(col)
				if err != nil {
					return nil, errors.Wrapf(err, "dataprep: impute %q", name)
				}
			}
		}
		for i := range col {
			x[i][j] = col[i]
		}
	}

	y := make([]float64, len(rows))
	for i, r := range rows {
		y[i] = target[r]
	}

	return &Result{
		X:            x,
		Y:            y,
		FeatureNames: names,
		RowIndex:     rows,
		FieldCodes:   codes,
	}, nil
}

// checkSchema verifies the columns the cleaner itself reads by contract.
// Target, mass, extinction, and field must exist; the flag list is advisory
// and may name columns a given catalog release lacks.
func checkSchema(tab *catalog.Table, opts Options) error {
	for _, name := range []string{opts.Target, opts.Mass, opts.Extinction, opts.Field} {
		if !tab.HasColumn(name) {
			return &catalog.SchemaError{Column: name}
		}
	}
	return nil
}
