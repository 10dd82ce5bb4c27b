// Package datasets loads TU graph-classification benchmarks, caches the
// processed collection on disk and hands out shuffled, split and batched
// views of it.
//
// Layout on disk, for root R and dataset name N:
//
//	R/N/raw[_cleaned]/N_A.txt, N_graph_indicator.txt, ...   raw text files
//	R/N/processed[_cleaned]/data.gob.zst                    processed cache
//
// The presence of the cache file short-circuits download and parsing.
package datasets

import "github.com/Noofbiz/tugraphs/graphs"

// Dataset is the read surface shared by TUDataset views and anything else
// the Loader can batch.
type Dataset interface {
	Len() int
	Get(k int) (graphs.Graph, error)
	Labels() []int
}
