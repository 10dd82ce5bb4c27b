package graphs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectionWith(t *testing.T, x, edgeAttr [][]float32, edges [][2]int) *Collection {
	t.Helper()
	g := Graph{NumNodes: len(x), EdgeIndex: edges, ID: NoID}
	if x != nil {
		m, err := FromRows(x)
		require.NoError(t, err)
		g.X = m
	}
	if edgeAttr != nil {
		m, err := FromRows(edgeAttr)
		require.NoError(t, err)
		g.EdgeAttr = m
	}
	c, err := Collate([]Graph{g})
	require.NoError(t, err)
	return c
}

func TestNodeLabelHeuristic(t *testing.T) {
	// two attribute columns followed by a three-way one-hot block
	c := collectionWith(t, [][]float32{
		{0.5, 2, 1, 0, 0},
		{1.5, 3, 0, 1, 0},
		{0.1, 0, 0, 0, 1},
	}, nil, [][2]int{})
	assert.Equal(t, 3, c.NumNodeLabels())
	assert.Equal(t, 2, c.NumNodeAttributes())

	c.DropNodeColumns(c.NumNodeAttributes())
	assert.Equal(t, 3, c.NumFeatures())
	assert.Equal(t, []float32{1, 0, 0}, c.X.Row(0))
	require.NoError(t, c.Validate())
}

func TestNodeLabelHeuristicNoLabels(t *testing.T) {
	c := collectionWith(t, [][]float32{{0.5, 2}, {1, 3}}, nil, [][2]int{})
	assert.Equal(t, 0, c.NumNodeLabels())
	assert.Equal(t, 2, c.NumNodeAttributes())

	empty := collectionWith(t, nil, nil, [][2]int{})
	assert.Equal(t, 0, empty.NumNodeLabels())
	assert.Equal(t, 0, empty.NumNodeAttributes())
}

func TestNodeLabelHeuristicPicksWidestBlock(t *testing.T) {
	// column 0 is binary but rows {1,1,0} and {0,0,1} only sum to one from column 1
	c := collectionWith(t, [][]float32{
		{1, 1, 0},
		{0, 0, 1},
	}, nil, [][2]int{})
	assert.Equal(t, 2, c.NumNodeLabels())
	assert.Equal(t, 1, c.NumNodeAttributes())
}

func TestEdgeLabelHeuristic(t *testing.T) {
	edges := [][2]int{{0, 1}, {1, 0}, {1, 2}}
	c := collectionWith(t, [][]float32{{1}, {1}, {1}}, [][]float32{
		{0.2, 0, 1},
		{0.7, 1, 0},
		{0.1, 0, 1},
	}, edges)
	assert.Equal(t, 2, c.NumEdgeLabels())
	assert.Equal(t, 1, c.NumEdgeAttributes())

	c.DropEdgeColumns(c.NumEdgeAttributes())
	assert.Equal(t, 2, c.EdgeAttr.Cols)
	assert.Equal(t, []float32{1, 0}, c.EdgeAttr.Row(1))
}

// The edge test only compares the block total with the edge count, so a
// non one-hot block that happens to sum up right is still taken as labels.
func TestEdgeLabelHeuristicIsLoose(t *testing.T) {
	edges := [][2]int{{0, 1}, {1, 0}}
	c := collectionWith(t, [][]float32{{1}, {1}}, [][]float32{
		{2},
		{0},
	}, edges)
	assert.Equal(t, 1, c.NumEdgeLabels())
	assert.Equal(t, 0, c.NumEdgeAttributes())

	none := collectionWith(t, [][]float32{{1}, {1}}, nil, edges)
	assert.Equal(t, 0, none.NumEdgeLabels())
	assert.Equal(t, 0, none.NumEdgeAttributes())
}
