// Package viz renders the diagnostic figures for a pipeline run: predicted
// versus measured redshift, the redshift distribution, and feature
// importance rankings. Presentation only; nothing downstream consumes the
// images.
package viz

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spacetelescope/hellouniverse/pkg/model"
)

// PredictionScatter plots predicted redshift against the spectroscopic
// truth, with the diagonal marking perfect prediction.
func PredictionScatter(yTrue, yPred []float64, title, path string) error {
	if len(yTrue) != len(yPred) {
		return &model.ShapeError{What: "prediction length", Want: len(yTrue), Got: len(yPred)}
	}

	pts := make(plotter.XYs, len(yTrue))
	maxZ := 0.0
	for i := range yTrue {
		pts[i].X = yTrue[i]
		pts[i].Y = yPred[i]
		if yTrue[i] > maxZ {
			maxZ = yTrue[i]
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "z_spec"
	p.Y.Label.Text = "predicted z"

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "viz: scatter")
	}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(sc)

	diag := plotter.NewFunction(func(x float64) float64 { return x })
	p.Add(diag)
	p.X.Min, p.X.Max = 0, maxZ
	p.Y.Min, p.Y.Max = 0, maxZ

	return errors.Wrap(p.Save(6*vg.Inch, 6*vg.Inch, path), "viz: save")
}

// RedshiftHistogram plots the distribution of a redshift column.
func RedshiftHistogram(vals []float64, bins int, title, path string) error {
	if len(vals) == 0 {
		return errors.New("viz: empty values")
	}
	if bins < 1 {
		return &model.ParamError{Name: "bins", Value: bins}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "redshift"
	p.Y.Label.Text = "sources"

	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return errors.Wrap(err, "viz: histogram")
	}
	p.Add(h)

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz: save")
}

// ImportanceBars plots per-feature importance scores as a bar chart, one bar
// per feature name.
func ImportanceBars(names []string, scores []float64, path string) error {
	if len(names) != len(scores) {
		return &model.ShapeError{What: "importance length", Want: len(names), Got: len(scores)}
	}

	p := plot.New()
	p.Title.Text = "Feature importances"
	p.Y.Label.Text = "importance"

	bars, err := plotter.NewBarChart(plotter.Values(scores), vg.Points(8))
	if err != nil {
		return errors.Wrap(err, "viz: bars")
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -0.9

	return errors.Wrap(p.Save(10*vg.Inch, 4*vg.Inch, path), "viz: save")
}
