package datasets

import (
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/Noofbiz/tugraphs/errkind"
	"github.com/Noofbiz/tugraphs/graphs"
)

// Loader walks a Dataset in mini-batches of stacked graphs. It follows
// gomlx's train.Dataset protocol: Yield returns io.EOF at the end of an
// epoch and Reset starts the next one.
type Loader struct {
	ds        Dataset
	name      string
	batchSize int
	rng       *rand.Rand

	order []int
	pos   int
}

// NewLoader batches ds by batchSize. With a non-nil rng the order is
// reshuffled on every Reset; otherwise the dataset order is kept.
func NewLoader(name string, ds Dataset, batchSize int, rng *rand.Rand) (*Loader, error) {
	if batchSize < 1 {
		return nil, errkind.Configf("loader: batch size must be >= 1, got %d", batchSize)
	}
	l := &Loader{ds: ds, name: name, batchSize: batchSize, rng: rng}
	l.Reset()
	return l, nil
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return l.name
}

// Reset rewinds the loader for a new epoch.
func (l *Loader) Reset() {
	n := l.ds.Len()
	if l.rng != nil {
		l.order = l.rng.Perm(n)
	} else {
		l.order = make([]int, n)
		for i := range l.order {
			l.order[i] = i
		}
	}
	l.pos = 0
}

// Next returns the next batch, or io.EOF once the epoch is exhausted. The
// last batch may be smaller than the batch size.
func (l *Loader) Next() (*graphs.Batch, error) {
	if l.pos >= len(l.order) {
		return nil, io.EOF
	}
	end := min(l.pos+l.batchSize, len(l.order))
	records := make([]graphs.Graph, 0, end-l.pos)
	for _, k := range l.order[l.pos:end] {
		g, err := l.ds.Get(k)
		if err != nil {
			return nil, err
		}
		records = append(records, g)
	}
	l.pos = end
	return graphs.MakeBatch(records)
}

// Yield returns the next batch as tensors. Inputs are node features (when
// present), edge index and node-to-graph assignment; labels hold the class
// of every graph. The spec value is the *graphs.Batch itself.
func (l *Loader) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	b, err := l.Next()
	if err != nil {
		return nil, nil, nil, err
	}
	ts, err := b.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	if ts.X != nil {
		inputs = append(inputs, ts.X)
	}
	inputs = append(inputs, ts.EdgeIndex, ts.Graph)
	labels = []*tensors.Tensor{ts.Y}
	return b, inputs, labels, nil
}
