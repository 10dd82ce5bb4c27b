package datasets

import (
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Noofbiz/tugraphs/errkind"
	"github.com/Noofbiz/tugraphs/graphs"
	"github.com/Noofbiz/tugraphs/ragged"
)

// tuFiles holds the parsed contents of one dataset's raw text files.
type tuFiles struct {
	edges          [][]int
	indicator      [][]int
	nodeAttributes [][]float32
	nodeLabels     [][]int
	edgeAttributes [][]float32
	edgeLabels     [][]int
	graphLabels    [][]int
}

// RawFileNames lists the files that must exist for a dataset to be parsed.
func RawFileNames(name string) []string {
	return []string{
		fmt.Sprintf("%s_A.txt", name),
		fmt.Sprintf("%s_graph_indicator.txt", name),
	}
}

// ReadTUData parses the TU text files of dataset name in dir into a
// collection.
//
// Node and edge label columns are shifted to start at 0, one-hot encoded
// column by column and appended after the continuous attributes. Graph
// labels are replaced by their rank among the sorted distinct labels. Self
// loops are dropped, edges sorted by (source, target) with duplicates merged
// by summing their attributes, then rewritten with graph-local node ids.
func ReadTUData(dir, name string) (*graphs.Collection, error) {
	path := func(suffix string) string {
		return filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, suffix))
	}

	var f tuFiles
	var g errgroup.Group
	g.Go(func() (err error) { f.edges, _, err = readIntRows(path("A"), false); return })
	g.Go(func() (err error) { f.indicator, _, err = readIntRows(path("graph_indicator"), false); return })
	g.Go(func() (err error) { f.nodeAttributes, _, err = readFloatRows(path("node_attributes"), true); return })
	g.Go(func() (err error) { f.nodeLabels, _, err = readIntRows(path("node_labels"), true); return })
	g.Go(func() (err error) { f.edgeAttributes, _, err = readFloatRows(path("edge_attributes"), true); return })
	g.Go(func() (err error) { f.edgeLabels, _, err = readIntRows(path("edge_labels"), true); return })
	g.Go(func() (err error) { f.graphLabels, _, err = readIntRows(path("graph_labels"), true); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f.assemble(name)
}

func (f *tuFiles) assemble(name string) (*graphs.Collection, error) {
	// graph membership of every node
	batch := make([]int, len(f.indicator))
	for i, row := range f.indicator {
		if len(row) == 0 || row[0] < 1 {
			return nil, errkind.Formatf("%s: graph indicator line %d is not a 1-based graph id", name, i+1)
		}
		batch[i] = row[0] - 1
		if i > 0 && batch[i] < batch[i-1] {
			return nil, errkind.Formatf("%s: graph indicator is not sorted at line %d", name, i+1)
		}
	}
	numNodes := len(batch)
	numGraphs := 0
	if numNodes > 0 {
		numGraphs = batch[numNodes-1] + 1
	}

	if f.graphLabels == nil {
		return nil, errkind.Formatf("%s: no graph labels", name)
	}
	if len(f.graphLabels) != numGraphs {
		return nil, errkind.Formatf("%s: %d graph labels for %d graphs", name, len(f.graphLabels), numGraphs)
	}
	y, err := rankLabels(f.graphLabels)
	if err != nil {
		return nil, errkind.Formatf("%s: graph labels: %v", name, err)
	}

	x, err := concatFeatures(f.nodeAttributes, f.nodeLabels, numNodes)
	if err != nil {
		return nil, errkind.Formatf("%s: node features: %v", name, err)
	}

	edges := make([][2]int, len(f.edges))
	for i, row := range f.edges {
		if len(row) != 2 {
			return nil, errkind.Formatf("%s: adjacency line %d has %d fields", name, i+1, len(row))
		}
		src, dst := row[0]-1, row[1]-1
		if src < 0 || dst < 0 || src >= numNodes || dst >= numNodes {
			return nil, errkind.Formatf("%s: adjacency line %d references node outside [1, %d]", name, i+1, numNodes)
		}
		if batch[src] != batch[dst] {
			return nil, errkind.Formatf("%s: adjacency line %d joins graphs %d and %d", name, i+1, batch[src]+1, batch[dst]+1)
		}
		edges[i] = [2]int{src, dst}
	}
	edgeAttr, err := concatFeatures(f.edgeAttributes, f.edgeLabels, len(edges))
	if err != nil {
		return nil, errkind.Formatf("%s: edge features: %v", name, err)
	}
	edges, edgeAttr = coalesce(edges, edgeAttr)

	// per-graph boundaries
	nodeCounts := make([]int, numGraphs)
	for _, b := range batch {
		nodeCounts[b]++
	}
	edgeCounts := make([]int, numGraphs)
	for _, e := range edges {
		edgeCounts[batch[e[0]]]++
	}
	nodeOffs, err := ragged.Build(nodeCounts)
	if err != nil {
		return nil, err
	}
	edgeOffs, err := ragged.Build(edgeCounts)
	if err != nil {
		return nil, err
	}
	for i, e := range edges {
		start := nodeOffs[batch[e[0]]]
		edges[i] = [2]int{e[0] - start, e[1] - start}
	}

	c := &graphs.Collection{
		X:         x,
		EdgeIndex: edges,
		EdgeAttr:  edgeAttr,
		Y:         y,
		NumNodes:  nodeCounts,
		Slices: ragged.Index{
			graphs.FieldEdgeIndex: edgeOffs,
			graphs.FieldY:         ragged.Unit(numGraphs),
		},
	}
	if x != nil {
		c.Slices[graphs.FieldX] = nodeOffs
	}
	if edgeAttr != nil {
		c.Slices[graphs.FieldEdgeAttr] = edgeOffs.Clone()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// rankLabels maps the first column of every row to its rank among the
// sorted distinct values.
func rankLabels(rows [][]int) ([]int, error) {
	raw := make([]int, len(rows))
	distinct := map[int]struct{}{}
	for i, r := range rows {
		if len(r) == 0 {
			return nil, fmt.Errorf("line %d is empty", i+1)
		}
		raw[i] = r[0]
		distinct[r[0]] = struct{}{}
	}
	values := make([]int, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Ints(values)
	rank := make(map[int]int, len(values))
	for i, v := range values {
		rank[v] = i
	}
	y := make([]int, len(raw))
	for i, v := range raw {
		y[i] = rank[v]
	}
	return y, nil
}

// concatFeatures joins continuous attributes with one-hot encoded labels.
// Both inputs are optional; the result is nil when both are missing.
func concatFeatures(attrs [][]float32, labels [][]int, rows int) (*graphs.Matrix, error) {
	if attrs == nil && labels == nil {
		return nil, nil
	}
	var parts []*graphs.Matrix
	if attrs != nil {
		if len(attrs) != rows {
			return nil, fmt.Errorf("%d attribute rows, want %d", len(attrs), rows)
		}
		m, err := graphs.FromRows(attrs)
		if err != nil {
			return nil, err
		}
		parts = append(parts, m)
	}
	if labels != nil {
		if len(labels) != rows {
			return nil, fmt.Errorf("%d label rows, want %d", len(labels), rows)
		}
		m, err := oneHotColumns(labels)
		if err != nil {
			return nil, err
		}
		parts = append(parts, m)
	}

	cols := 0
	for _, p := range parts {
		cols += p.Cols
	}
	out := graphs.NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		row, at := out.Row(i), 0
		for _, p := range parts {
			at += copy(row[at:], p.Row(i))
		}
	}
	return out, nil
}

// oneHotColumns encodes every label column separately after shifting it to
// start at 0, then concatenates the encodings.
func oneHotColumns(labels [][]int) (*graphs.Matrix, error) {
	rows := len(labels)
	if rows == 0 {
		return graphs.NewMatrix(0, 0), nil
	}
	width := len(labels[0])
	for i, r := range labels {
		if len(r) != width {
			return nil, fmt.Errorf("label line %d has %d columns, want %d", i+1, len(r), width)
		}
	}
	mins := make([]int, width)
	sizes := make([]int, width)
	for j := 0; j < width; j++ {
		lo, hi := labels[0][j], labels[0][j]
		for _, r := range labels {
			lo = min(lo, r[j])
			hi = max(hi, r[j])
		}
		mins[j] = lo
		sizes[j] = hi - lo + 1
	}
	cols := 0
	for _, s := range sizes {
		cols += s
	}
	out := graphs.NewMatrix(rows, cols)
	for i, r := range labels {
		base := 0
		for j, v := range r {
			out.Set(i, base+v-mins[j], 1)
			base += sizes[j]
		}
	}
	return out, nil
}

// coalesce drops self loops, sorts edges by (source, target) and merges
// duplicates by summing their attribute rows.
func coalesce(edges [][2]int, attr *graphs.Matrix) ([][2]int, *graphs.Matrix) {
	order := make([]int, 0, len(edges))
	for i, e := range edges {
		if e[0] != e[1] {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := edges[order[a]], edges[order[b]]
		if ea[0] != eb[0] {
			return ea[0] < eb[0]
		}
		return ea[1] < eb[1]
	})

	out := make([][2]int, 0, len(order))
	var outAttr *graphs.Matrix
	if attr != nil {
		outAttr = graphs.NewMatrix(0, attr.Cols)
	}
	for _, i := range order {
		e := edges[i]
		if n := len(out); n > 0 && out[n-1] == e {
			if attr != nil {
				last := outAttr.Row(outAttr.Rows - 1)
				for j, v := range attr.Row(i) {
					last[j] += v
				}
			}
			continue
		}
		out = append(out, e)
		if attr != nil {
			outAttr.Data = append(outAttr.Data, attr.Row(i)...)
			outAttr.Rows++
		}
	}
	return out, outAttr
}
