package datasets

import (
	"github.com/Noofbiz/tugraphs/errkind"
	"github.com/Noofbiz/tugraphs/graphs"
	"github.com/Noofbiz/tugraphs/ragged"
)

// featureDatasets ship node labels or attributes worth keeping. Every other
// dataset gets a constant feature per node.
var featureDatasets = map[string]bool{
	"MUTAG":        true,
	"PTC_MR":       true,
	"DD":           true,
	"PROTEINS":     true,
	"NCI1":         true,
	"NCI109":       true,
	"Mutagenicity": true,
}

// HasNodeFeatures reports whether name keeps its own node features.
func HasNodeFeatures(name string) bool {
	return featureDatasets[name]
}

// ReconstructNodeCounts recovers per-graph node counts from the concatenated
// edge sources alone. Sources are assumed non-decreasing inside a graph and
// to drop at every graph boundary; a graph's node count is taken as its last
// source id plus one.
func ReconstructNodeCounts(src []int) []int {
	if len(src) == 0 {
		return []int{}
	}
	var counts []int
	for n := 0; n+1 < len(src); n++ {
		if src[n] > src[n+1] {
			counts = append(counts, src[n]+1)
		}
	}
	return append(counts, src[len(src)-1]+1)
}

// NormalizeFeatures replaces node features with a single all-ones column
// sized by ReconstructNodeCounts, and rebuilds the x offsets to match.
//
// The reconstruction must find exactly one boundary per graph, otherwise
// ErrFormat is returned. With strict set, every reconstructed count must
// also equal the parser's node count for that graph.
func NormalizeFeatures(c *graphs.Collection, strict bool) error {
	src := make([]int, len(c.EdgeIndex))
	for i, e := range c.EdgeIndex {
		src[i] = e[0]
	}
	counts := ReconstructNodeCounts(src)
	if len(counts) != c.Count() {
		return errkind.Formatf("normalize: edge sources split into %d graphs, collection has %d", len(counts), c.Count())
	}
	if strict {
		for k, n := range counts {
			if n != c.NumNodes[k] {
				return errkind.Formatf("normalize: graph %d reconstructed with %d nodes, parser counted %d", k, n, c.NumNodes[k])
			}
		}
	}

	offs, err := ragged.Build(counts)
	if err != nil {
		return err
	}
	c.X = graphs.Ones(offs.Total(), 1)
	c.Slices[graphs.FieldX] = offs
	return nil
}
