package graphs

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/Noofbiz/tugraphs/errkind"
)

// Batch is the disjoint union of several graphs, laid out flat so it can be
// handed to a model as a handful of tensors.
type Batch struct {
	// X stacks the node features of every graph.
	X *Matrix

	// EdgeIndex holds edges with node ids shifted into the stacked node range.
	EdgeIndex [][2]int

	// EdgeAttr stacks edge features, nil when the graphs have none.
	EdgeAttr *Matrix

	// Graph maps every stacked node to its position in the batch.
	Graph []int

	Y   []int
	IDs []int

	NumGraphs int
	NumNodes  int
}

// MakeBatch stacks records into a Batch. Graphs without node features
// contribute NumNodes nodes and the batch gets no X.
func MakeBatch(records []Graph) (*Batch, error) {
	b := &Batch{
		EdgeIndex: [][2]int{},
		Graph:     []int{},
		Y:         make([]int, 0, len(records)),
		IDs:       make([]int, 0, len(records)),
		NumGraphs: len(records),
	}
	if len(records) == 0 {
		return b, nil
	}

	hasX, hasEdgeAttr := records[0].X != nil, records[0].EdgeAttr != nil
	if hasX {
		b.X = NewMatrix(0, records[0].X.Cols)
	}
	if hasEdgeAttr {
		b.EdgeAttr = NewMatrix(0, records[0].EdgeAttr.Cols)
	}

	for i, g := range records {
		if (g.X != nil) != hasX || (g.EdgeAttr != nil) != hasEdgeAttr {
			return nil, errkind.Formatf("graphs: batch graph %d carries a different set of fields than graph 0", i)
		}
		nodes := g.NumNodes
		if hasX {
			if g.X.Cols != b.X.Cols {
				return nil, errkind.Formatf("graphs: batch graph %d has %d feature columns, want %d", i, g.X.Cols, b.X.Cols)
			}
			nodes = g.X.Rows
			b.X.Data = append(b.X.Data, g.X.Data...)
			b.X.Rows += g.X.Rows
		}
		for _, e := range g.EdgeIndex {
			b.EdgeIndex = append(b.EdgeIndex, [2]int{e[0] + b.NumNodes, e[1] + b.NumNodes})
		}
		if hasEdgeAttr {
			if g.EdgeAttr.Cols != b.EdgeAttr.Cols {
				return nil, errkind.Formatf("graphs: batch graph %d has %d edge feature columns, want %d", i, g.EdgeAttr.Cols, b.EdgeAttr.Cols)
			}
			b.EdgeAttr.Data = append(b.EdgeAttr.Data, g.EdgeAttr.Data...)
			b.EdgeAttr.Rows += g.EdgeAttr.Rows
		}
		for range nodes {
			b.Graph = append(b.Graph, i)
		}
		b.NumNodes += nodes
		b.Y = append(b.Y, g.Y)
		b.IDs = append(b.IDs, g.ID)
	}
	return b, nil
}

// BatchTensors groups the gomlx tensors of a Batch.
type BatchTensors struct {
	// X is [NumNodes, features] float32; nil when the batch has no X.
	X *tensors.Tensor
	// EdgeIndex is [2, NumEdges] int64 (sources row, targets row).
	EdgeIndex *tensors.Tensor
	// Graph is [NumNodes] int64.
	Graph *tensors.Tensor
	// Y is [NumGraphs] int64.
	Y *tensors.Tensor
}

// ToGomlxTensors converts the batch into gomlx tensors. Shapes come from
// the batch counts, so batches without edges or feature columns still get
// well-formed (zero-sized) tensors.
func (b *Batch) ToGomlxTensors() (*BatchTensors, error) {
	out := &BatchTensors{}
	if b.X != nil {
		if len(b.X.Data) != b.X.Rows*b.X.Cols {
			return nil, errkind.Formatf("graphs: batch X holds %d values for shape [%d, %d]", len(b.X.Data), b.X.Rows, b.X.Cols)
		}
		if b.X.Rows != b.NumNodes {
			return nil, errkind.Formatf("graphs: batch X has %d rows for %d nodes", b.X.Rows, b.NumNodes)
		}
		flat := make([]float32, len(b.X.Data))
		copy(flat, b.X.Data)
		out.X = tensors.FromFlatDataAndDimensions(flat, b.X.Rows, b.X.Cols)
	}

	numEdges := len(b.EdgeIndex)
	edges := make([]int64, 2*numEdges)
	for j, e := range b.EdgeIndex {
		edges[j] = int64(e[0])
		edges[numEdges+j] = int64(e[1])
	}
	out.EdgeIndex = tensors.FromFlatDataAndDimensions(edges, 2, numEdges)
	out.Graph = tensors.FromFlatDataAndDimensions(toInt64(b.Graph), len(b.Graph))
	out.Y = tensors.FromFlatDataAndDimensions(toInt64(b.Y), len(b.Y))
	return out, nil
}

func toInt64(xs []int) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = int64(x)
	}
	return out
}
