package datasets

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Noofbiz/tugraphs/errkind"
	"github.com/Noofbiz/tugraphs/graphs"
	"github.com/Noofbiz/tugraphs/split"
)

// Config selects a TU dataset and how it is processed.
type Config struct {
	// Root is the directory holding one sub-directory per dataset.
	Root string
	// Name is the TU dataset name, e.g. "IMDB-BINARY".
	Name string

	// Cleaned selects the isomorphism-free variant and its separate
	// raw_cleaned/processed_cleaned directories.
	Cleaned bool

	// UseNodeAttr and UseEdgeAttr keep the continuous attribute columns
	// that are stripped by default.
	UseNodeAttr bool
	UseEdgeAttr bool

	// StrictFeatures makes the feature normalizer compare every
	// reconstructed node count against the parser's count.
	StrictFeatures bool

	// URL and CleanedURL override the archive sources.
	URL        string
	CleanedURL string

	// PreFilter and PreTransform run once before the collection is cached.
	PreFilter    func(graphs.Graph) bool
	PreTransform func(graphs.Graph) (graphs.Graph, error)

	// Fetcher downloads raw archives; defaults to an HTTPFetcher.
	Fetcher Fetcher
	Logger  *zap.Logger
}

// TUDataset is a view over a processed TU collection. Views created by
// Shuffle and Subset share storage with their parent.
type TUDataset struct {
	cfg     Config
	coll    *graphs.Collection
	indices []int
	logger  *zap.Logger
}

var _ Dataset = (*TUDataset)(nil)

// NewTUDataset loads the processed collection from cache, or downloads,
// parses, filters, transforms and caches it first. The loaded collection
// then has its attribute columns stripped (unless kept by Config), gets
// constant node features when the dataset is not known to ship its own,
// and gets ids 0..N-1 in storage order.
func NewTUDataset(ctx context.Context, cfg Config) (*TUDataset, error) {
	if cfg.Name == "" {
		return nil, errkind.Configf("dataset name is empty")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.CleanedURL == "" {
		cfg.CleanedURL = DefaultCleanedURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = NewHTTPFetcher(logger)
	}
	ds := &TUDataset{cfg: cfg, logger: logger.With(zap.String("dataset", cfg.Name))}

	if !fileExists(ds.CachePath()) {
		if err := ds.process(ctx); err != nil {
			return nil, err
		}
	}
	coll, err := LoadCache(ds.CachePath(), cfg.Name)
	if err != nil {
		return nil, err
	}
	ds.coll = coll

	if err := ds.finish(); err != nil {
		return nil, err
	}
	ds.logger.Info("dataset ready",
		zap.Int("graphs", coll.Count()),
		zap.Int("features", coll.NumFeatures()),
		zap.Int("classes", coll.NumClasses()),
	)
	return ds, nil
}

// RawDir is root/name/raw or root/name/raw_cleaned.
func (d *TUDataset) RawDir() string {
	return filepath.Join(d.cfg.Root, d.cfg.Name, "raw"+d.suffix())
}

// ProcessedDir is root/name/processed or root/name/processed_cleaned.
func (d *TUDataset) ProcessedDir() string {
	return filepath.Join(d.cfg.Root, d.cfg.Name, "processed"+d.suffix())
}

// CachePath is the processed blob inside ProcessedDir.
func (d *TUDataset) CachePath() string {
	return filepath.Join(d.ProcessedDir(), CacheFileName)
}

func (d *TUDataset) suffix() string {
	if d.cfg.Cleaned {
		return "_cleaned"
	}
	return ""
}

func (d *TUDataset) hasRawFiles() bool {
	for _, f := range RawFileNames(d.cfg.Name) {
		if !fileExists(filepath.Join(d.RawDir(), f)) {
			return false
		}
	}
	return true
}

// download fetches the archive and moves the extracted dataset directory to
// RawDir, replacing any stale copy.
func (d *TUDataset) download(ctx context.Context) error {
	url := d.cfg.URL
	if d.cfg.Cleaned {
		url = d.cfg.CleanedURL
	}
	folder := filepath.Join(d.cfg.Root, d.cfg.Name)
	if err := d.cfg.Fetcher.Fetch(ctx, fmt.Sprintf("%s/%s.zip", url, d.cfg.Name), folder); err != nil {
		return err
	}
	if err := os.RemoveAll(d.RawDir()); err != nil {
		return errkind.IO(err, "remove %s", d.RawDir())
	}
	if err := os.Rename(filepath.Join(folder, d.cfg.Name), d.RawDir()); err != nil {
		return errkind.IO(err, "move extracted files to %s", d.RawDir())
	}
	return nil
}

func (d *TUDataset) process(ctx context.Context) error {
	if !d.hasRawFiles() {
		if err := d.download(ctx); err != nil {
			return err
		}
	}
	d.logger.Info("processing raw files", zap.String("dir", d.RawDir()))
	coll, err := ReadTUData(d.RawDir(), d.cfg.Name)
	if err != nil {
		return err
	}

	if d.cfg.PreFilter != nil {
		before := coll.Count()
		if err := coll.Filter(d.cfg.PreFilter); err != nil {
			return err
		}
		d.logger.Debug("pre_filter applied", zap.Int("before", before), zap.Int("after", coll.Count()))
	}
	if d.cfg.PreTransform != nil {
		if err := coll.Map(d.cfg.PreTransform); err != nil {
			return err
		}
		d.logger.Debug("pre_transform applied", zap.Int("graphs", coll.Count()))
	}

	if err := SaveCache(d.CachePath(), d.cfg.Name, coll); err != nil {
		return err
	}
	d.logger.Info("processed collection cached", zap.String("path", d.CachePath()))
	return nil
}

// finish applies the load-time steps that are never cached.
func (d *TUDataset) finish() error {
	c := d.coll
	if c.X != nil && !d.cfg.UseNodeAttr {
		c.DropNodeColumns(c.NumNodeAttributes())
	}
	if c.EdgeAttr != nil && !d.cfg.UseEdgeAttr {
		c.DropEdgeColumns(c.NumEdgeAttributes())
	}
	if !HasNodeFeatures(d.cfg.Name) {
		if err := NormalizeFeatures(c, d.cfg.StrictFeatures); err != nil {
			return err
		}
		d.logger.Debug("node features replaced by constant column", zap.Int("nodes", c.X.Rows))
	}
	c.AssignIDs()
	return c.Validate()
}

// Name returns the dataset name.
func (d *TUDataset) Name() string {
	return d.cfg.Name
}

// Len returns the number of graphs in the view.
func (d *TUDataset) Len() int {
	if d.indices == nil {
		return d.coll.Count()
	}
	return len(d.indices)
}

// Get returns graph k of the view.
func (d *TUDataset) Get(k int) (graphs.Graph, error) {
	if k < 0 || k >= d.Len() {
		return graphs.Graph{}, errkind.Indexf("datasets: graph %d out of range [0, %d)", k, d.Len())
	}
	return d.coll.Get(d.position(k))
}

func (d *TUDataset) position(k int) int {
	if d.indices == nil {
		return k
	}
	return d.indices[k]
}

// Labels returns the class labels in view order.
func (d *TUDataset) Labels() []int {
	labels := make([]int, d.Len())
	for k := range labels {
		labels[k] = d.coll.Y[d.position(k)]
	}
	return labels
}

// NumFeatures is the node feature width of the underlying collection.
func (d *TUDataset) NumFeatures() int { return d.coll.NumFeatures() }

// NumClasses is the largest label of the underlying collection plus one.
func (d *TUDataset) NumClasses() int { return d.coll.NumClasses() }

// NumNodeLabels is the width of the one-hot node label block.
func (d *TUDataset) NumNodeLabels() int { return d.coll.NumNodeLabels() }

// NumNodeAttributes is the node feature width left of the label block.
func (d *TUDataset) NumNodeAttributes() int { return d.coll.NumNodeAttributes() }

// NumEdgeLabels is the width of the edge label block.
func (d *TUDataset) NumEdgeLabels() int { return d.coll.NumEdgeLabels() }

// NumEdgeAttributes is the edge feature width left of the label block.
func (d *TUDataset) NumEdgeAttributes() int { return d.coll.NumEdgeAttributes() }

// String renders the dataset as "name(count)".
func (d *TUDataset) String() string {
	return fmt.Sprintf("%s(%d)", d.cfg.Name, d.Len())
}

// Subset returns a view of the graphs at the given view positions.
func (d *TUDataset) Subset(indices []int) (*TUDataset, error) {
	sel := make([]int, len(indices))
	for i, k := range indices {
		if k < 0 || k >= d.Len() {
			return nil, errkind.Indexf("datasets: subset position %d out of range [0, %d)", k, d.Len())
		}
		sel[i] = d.position(k)
	}
	view := *d
	view.indices = sel
	return &view, nil
}

// Shuffle returns a view with the graphs in an order drawn from rng.
func (d *TUDataset) Shuffle(rng *rand.Rand) (*TUDataset, error) {
	if rng == nil {
		return nil, errkind.Configf("datasets: a seeded *rand.Rand is required")
	}
	return d.Subset(rng.Perm(d.Len()))
}

// IDMapping maps every graph id to its position in this view, so positions
// after a shuffle can be traced back to the processed file order.
func (d *TUDataset) IDMapping() (map[int]int, error) {
	mapping := make(map[int]int, d.Len())
	for k := 0; k < d.Len(); k++ {
		g, err := d.Get(k)
		if err != nil {
			return nil, err
		}
		mapping[g.ID] = k
	}
	return mapping, nil
}

// Load opens the dataset, shuffles it with rng and returns it together with
// its feature width (at least 1), class count and id-to-position mapping.
func Load(ctx context.Context, cfg Config, rng *rand.Rand) (ds *TUDataset, numFeatures, numClasses int, mapping map[int]int, err error) {
	if rng == nil {
		return nil, 0, 0, nil, errkind.Configf("datasets: a seeded *rand.Rand is required")
	}
	base, err := NewTUDataset(ctx, cfg)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	if ds, err = base.Shuffle(rng); err != nil {
		return nil, 0, 0, nil, err
	}
	numFeatures = max(ds.NumFeatures(), 1)
	numClasses = ds.NumClasses()
	mapping, err = ds.IDMapping()
	if err != nil {
		return nil, 0, 0, nil, err
	}
	return ds, numFeatures, numClasses, mapping, nil
}

// Splits holds the three views produced by SplitImbalanced.
type Splits struct {
	Train *TUDataset
	Val   *TUDataset
	Test  *TUDataset

	TrainCounts []int
	ValCounts   []int
}

// SplitImbalanced splits ds into train/val/test views with floor(ratio*n)
// graphs of class 0 and the rest of class 1 in train and val, everything
// else in test.
func SplitImbalanced(ds *TUDataset, ratio float64, numTrain, numVal int, rng *rand.Rand) (*Splits, error) {
	res, err := split.Stratified(ds.Labels(), ratio, numTrain, numVal, rng)
	if err != nil {
		return nil, err
	}
	out := &Splits{TrainCounts: res.TrainCounts, ValCounts: res.ValCounts}
	if out.Train, err = ds.Subset(res.Train); err != nil {
		return nil, err
	}
	if out.Val, err = ds.Subset(res.Val); err != nil {
		return nil, err
	}
	if out.Test, err = ds.Subset(res.Test); err != nil {
		return nil, err
	}
	ds.logger.Debug("split assigned",
		zap.Float64("imb_ratio", ratio),
		zap.Ints("train_counts", res.TrainCounts),
		zap.Ints("val_counts", res.ValCounts),
		zap.Int("test", len(res.Test)),
	)
	return out, nil
}
