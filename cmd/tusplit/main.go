// Command tusplit loads a TU dataset, shuffles it with a fixed seed and cuts
// an imbalanced train/val/test split, optionally writing a manifest of the
// split ids and a class-count chart.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Noofbiz/tugraphs/config"
	"github.com/Noofbiz/tugraphs/datasets"
	"github.com/Noofbiz/tugraphs/graphs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:           "tusplit",
		Short:         "Load a TU graph dataset and cut an imbalanced train/val/test split",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New(configFile)
			if err != nil {
				return err
			}
			if err := bindFlags(cmd, v); err != nil {
				return err
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "optional yaml config file")
	f.String("root", "data", "directory holding one sub-directory per dataset")
	f.String("name", "", "TU dataset name, e.g. IMDB-BINARY")
	f.Bool("cleaned", false, "use the isomorphism-free variant")
	f.Bool("use-node-attr", false, "keep continuous node attributes")
	f.Bool("use-edge-attr", false, "keep continuous edge attributes")
	f.Bool("strict-features", false, "check reconstructed node counts against the parser's")
	f.Float64("imb-ratio", 0.5, "share of class 0 in train and val")
	f.Int("num-train", 0, "train split size")
	f.Int("num-val", 0, "validation split size")
	f.Int64("seed", 0, "seed for shuffling and splitting")
	f.Int("batch-size", 0, "walk the train split once in batches of this size")
	f.String("manifest", "", "write the split ids to this yaml file")
	f.String("plot", "", "write a class-count bar chart to this png file")
	f.Bool("debug", false, "development logging")
	return cmd
}

// bindFlags makes explicitly set flags override file and environment values.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for _, key := range config.Keys {
		flag := cmd.Flags().Lookup(flagName(key))
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rng := rand.New(rand.NewSource(cfg.Seed))
	ds, numFeatures, numClasses, mapping, err := datasets.Load(ctx, datasets.Config{
		Root:           cfg.Root,
		Name:           cfg.Name,
		Cleaned:        cfg.Cleaned,
		UseNodeAttr:    cfg.UseNodeAttr,
		UseEdgeAttr:    cfg.UseEdgeAttr,
		StrictFeatures: cfg.StrictFeatures,
		Logger:         logger,
	}, rng)
	if err != nil {
		return err
	}
	logger.Info("loaded",
		zap.Stringer("dataset", ds),
		zap.Int("num_features", numFeatures),
		zap.Int("num_classes", numClasses),
		zap.Int("ids", len(mapping)),
	)

	splits, err := datasets.SplitImbalanced(ds, cfg.ImbRatio, cfg.NumTrain, cfg.NumVal, rng)
	if err != nil {
		return err
	}
	logger.Info("split",
		zap.Stringer("train", splits.Train),
		zap.Stringer("val", splits.Val),
		zap.Stringer("test", splits.Test),
		zap.Ints("train_counts", splits.TrainCounts),
		zap.Ints("val_counts", splits.ValCounts),
	)

	if cfg.Manifest != "" {
		m, err := buildManifest(cfg, splits)
		if err != nil {
			return err
		}
		if err := writeManifest(cfg.Manifest, m); err != nil {
			return err
		}
		logger.Info("manifest written", zap.String("path", cfg.Manifest))
	}
	if cfg.Plot != "" {
		if err := plotClassCounts(cfg.Plot, cfg.Name, splits, numClasses); err != nil {
			return err
		}
		logger.Info("plot written", zap.String("path", cfg.Plot))
	}
	if cfg.BatchSize > 0 {
		if err := walkBatches(splits.Train, cfg.BatchSize, rng, logger); err != nil {
			return err
		}
	}
	return nil
}

// walkBatches runs one epoch of the train split through a Loader and logs
// the tensor volume produced.
func walkBatches(train *datasets.TUDataset, batchSize int, rng *rand.Rand, logger *zap.Logger) error {
	loader, err := datasets.NewLoader("train", train, batchSize, rng)
	if err != nil {
		return err
	}
	batches, tensors, nodes, edges := 0, 0, 0, 0
	for {
		spec, inputs, labels, err := loader.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		b := spec.(*graphs.Batch)
		batches++
		tensors += len(inputs) + len(labels)
		nodes += b.NumNodes
		edges += len(b.EdgeIndex)
	}
	logger.Info("train epoch batched",
		zap.Int("batches", batches),
		zap.Int("tensors", tensors),
		zap.String("nodes", humanize.Comma(int64(nodes))),
		zap.String("edges", humanize.Comma(int64(edges))),
	)
	return nil
}
