// Command photoz runs the tree-based photometric redshift pipeline: load
// the catalog, clean it, split it, fit a decision tree and a random forest,
// and score both against the catalog's own photometric estimate.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacetelescope/hellouniverse/pkg/catalog"
	"github.com/spacetelescope/hellouniverse/pkg/config"
	"github.com/spacetelescope/hellouniverse/pkg/dataprep"
	"github.com/spacetelescope/hellouniverse/pkg/eval"
	"github.com/spacetelescope/hellouniverse/pkg/fetch"
	"github.com/spacetelescope/hellouniverse/pkg/model"
	"github.com/spacetelescope/hellouniverse/pkg/split"
	"github.com/spacetelescope/hellouniverse/pkg/viz"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "photoz",
		Short:         "Predict galaxy redshifts from photometric catalog data with tree-based regression",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML configuration file")

	loadConfig := func() (*config.Config, error) {
		if cfgPath == "" {
			return config.Default(), nil
		}
		return config.Load(cfgPath)
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and extract the catalog archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := fetch.Archive(cmd.Context(), cfg.Catalog.URL, cfg.Catalog.Member, cfg.Catalog.DataDir, logger)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and print evaluation metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), cfg, logger)
		},
	}

	root.AddCommand(fetchCmd, runCmd)
	return root
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	path := cfg.Catalog.Path
	if path == "" {
		var err error
		path, err = fetch.Archive(ctx, cfg.Catalog.URL, cfg.Catalog.Member, cfg.Catalog.DataDir, logger)
		if err != nil {
			return err
		}
	}

	tab, err := catalog.ParseFile(path)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("rows", tab.NumRows()), zap.Int("cols", tab.NumCols()))

	opts := dataprep.DefaultOptions()
	res, err := dataprep.Clean(tab, opts)
	if err != nil {
		return err
	}
	logger.Info("catalog cleaned",
		zap.Int("rows", len(res.X)),
		zap.Int("features", len(res.FeatureNames)))

	sp, err := split.TrainValTest(res.X, res.Y, cfg.Seed)
	if err != nil {
		return err
	}
	logger.Info("dataset split",
		zap.Int("train", len(sp.Train.Y)),
		zap.Int("validation", len(sp.Val.Y)),
		zap.Int("test", len(sp.Test.Y)))

	tree := model.NewRegressionTree(append(treeOpts(cfg.Tree), model.WithSeed(cfg.Seed))...)
	if err := tree.Fit(sp.Train.X, sp.Train.Y); err != nil {
		return err
	}
	treeMSE, err := eval.MSE(sp.Val.Y, tree.Predict(sp.Val.X))
	if err != nil {
		return err
	}
	fmt.Printf("Decision tree validation MSE: %.4f\n", treeMSE)

	forest := model.NewForestRegressor(append(forestOpts(cfg.Forest), model.WithForestSeed(cfg.Seed))...)
	if err := forest.Fit(sp.Train.X, sp.Train.Y); err != nil {
		return err
	}
	valPred := forest.Predict(sp.Val.X)
	forestMSE, err := eval.MSE(sp.Val.Y, valPred)
	if err != nil {
		return err
	}
	fmt.Printf("Random forest validation MSE: %.4f\n", forestMSE)

	// The catalog ships its own template-fitting estimate; re-join it to the
	// validation rows for a like-for-like comparison.
	zpeak, err := tab.Floats(opts.Baseline)
	if err != nil {
		return err
	}
	baseMSE, err := eval.BaselineMSE(eval.Gather(zpeak, res.RowIndex), sp.Val.Rows, sp.Val.Y)
	if err != nil {
		return err
	}
	fmt.Printf("Baseline %s validation MSE: %.4f\n", opts.Baseline, baseMSE)

	best := forest
	if cfg.Search.Enabled {
		sr, err := model.RandomizedSearch(sp.Train.X, sp.Train.Y, model.Grid{
			MaxDepth:        cfg.Search.MaxDepth,
			MinSamplesSplit: cfg.Search.MinSamplesSplit,
			MinSamplesLeaf:  cfg.Search.MinSamplesLeaf,
		}, model.SearchConfig{
			Iterations: cfg.Search.Iterations,
			Folds:      cfg.Search.Folds,
			Trees:      cfg.Forest.NEstimators,
			Seed:       cfg.Seed,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Best parameters: max_depth=%d min_samples_split=%d min_samples_leaf=%d (score %.4f)\n",
			sr.Best.Params.MaxDepth, sr.Best.Params.MinSamplesSplit, sr.Best.Params.MinSamplesLeaf, sr.Best.MeanScore)
		best = sr.Model
	}

	testMSE, err := eval.MSE(sp.Test.Y, best.Predict(sp.Test.X))
	if err != nil {
		return err
	}
	fmt.Printf("Random forest test MSE: %.4f\n", testMSE)

	cv, err := eval.CrossValidate(func() model.Regressor {
		return model.NewForestRegressor(append(forestOpts(cfg.Forest), model.WithForestSeed(cfg.Seed))...)
	}, res.X, res.Y, cvFolds(cfg), cfg.Seed)
	if err != nil {
		return err
	}
	fmt.Printf("Cross-validated score: %.3f ± %.3f\n", cv.Mean, cv.Std)

	printImportances(res.FeatureNames, best.FeatureImportances())

	if cfg.Plots.Dir != "" {
		if err := renderPlots(cfg.Plots.Dir, res, sp, valPred, best); err != nil {
			return err
		}
		logger.Info("plots written", zap.String("dir", cfg.Plots.Dir))
	}
	return nil
}

func treeOpts(c config.TreeConfig) []model.TreeOption {
	var opts []model.TreeOption
	if c.MaxDepth > 0 {
		opts = append(opts, model.WithMaxDepth(c.MaxDepth))
	}
	if c.MinSamplesSplit > 0 {
		opts = append(opts, model.WithMinSamplesSplit(c.MinSamplesSplit))
	}
	if c.MinSamplesLeaf > 0 {
		opts = append(opts, model.WithMinSamplesLeaf(c.MinSamplesLeaf))
	}
	return opts
}

func forestOpts(c config.ForestConfig) []model.ForestOption {
	var opts []model.ForestOption
	if c.NEstimators > 0 {
		opts = append(opts, model.WithNEstimators(c.NEstimators))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, model.WithForestMaxDepth(c.MaxDepth))
	}
	if c.MinSamplesSplit > 0 {
		opts = append(opts, model.WithForestMinSamplesSplit(c.MinSamplesSplit))
	}
	if c.MinSamplesLeaf > 0 {
		opts = append(opts, model.WithForestMinSamplesLeaf(c.MinSamplesLeaf))
	}
	return opts
}

func cvFolds(cfg *config.Config) int {
	if cfg.Search.Folds > 0 {
		return cfg.Search.Folds
	}
	return 5
}

func printImportances(names []string, scores []float64) {
	type ranked struct {
		name  string
		score float64
	}
	rs := make([]ranked, len(names))
	for i := range names {
		rs[i] = ranked{name: names[i], score: scores[i]}
	}
	sort.Slice(rs, func(a, b int) bool { return rs[a].score > rs[b].score })

	fmt.Println("Top features:")
	for i := 0; i < len(rs) && i < 10; i++ {
		fmt.Printf("  %-12s %.4f\n", rs[i].name, rs[i].score)
	}
}

func renderPlots(dir string, res *dataprep.Result, sp *split.Split, valPred []float64, forest *model.ForestRegressor) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := viz.RedshiftHistogram(res.Y, 50, "Spectroscopic redshift distribution", filepath.Join(dir, "zspec_hist.png")); err != nil {
		return err
	}
	if err := viz.PredictionScatter(sp.Val.Y, valPred, "Random forest, validation set", filepath.Join(dir, "forest_val.png")); err != nil {
		return err
	}
	return viz.ImportanceBars(res.FeatureNames, forest.FeatureImportances(), filepath.Join(dir, "importances.png"))
}
