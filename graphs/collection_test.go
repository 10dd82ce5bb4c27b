package graphs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/tugraphs/errkind"
	"github.com/Noofbiz/tugraphs/ragged"
)

// randomGraph builds a graph with n nodes, a few local edges and optional
// feature matrices of the given widths (0 means absent).
func randomGraph(rng *rand.Rand, n, xCols, eCols, label int) Graph {
	g := Graph{NumNodes: n, Y: label, ID: NoID, EdgeIndex: [][2]int{}}
	if xCols > 0 {
		g.X = NewMatrix(n, xCols)
		for i := range g.X.Data {
			g.X.Data[i] = rng.Float32()
		}
	}
	for src := 0; src < n; src++ {
		for dst := 0; dst < n; dst++ {
			if src != dst && rng.Intn(3) == 0 {
				g.EdgeIndex = append(g.EdgeIndex, [2]int{src, dst})
			}
		}
	}
	if eCols > 0 {
		g.EdgeAttr = NewMatrix(len(g.EdgeIndex), eCols)
		for i := range g.EdgeAttr.Data {
			g.EdgeAttr.Data[i] = rng.Float32()
		}
	}
	return g
}

func randomRecords(seed int64, count, xCols, eCols int) []Graph {
	rng := rand.New(rand.NewSource(seed))
	records := make([]Graph, count)
	for i := range records {
		records[i] = randomGraph(rng, 1+rng.Intn(6), xCols, eCols, rng.Intn(2))
	}
	return records
}

func TestCollateGetRoundTrip(t *testing.T) {
	cases := []struct {
		name         string
		xCols, eCols int
	}{
		{"features and edge attributes", 3, 2},
		{"node features only", 4, 0},
		{"edge attributes only", 0, 1},
		{"structure only", 0, 0},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records := randomRecords(int64(i+1), 12, tc.xCols, tc.eCols)
			c, err := Collate(records)
			require.NoError(t, err)
			require.NoError(t, c.Validate())
			require.Equal(t, len(records), c.Count())

			for k, want := range records {
				got, err := c.Get(k)
				require.NoError(t, err)
				assert.Equal(t, want, got, "graph %d", k)
			}

			// re-collating the reassembled records reproduces storage exactly
			again, err := c.Records()
			require.NoError(t, err)
			c2, err := Collate(again)
			require.NoError(t, err)
			assert.Equal(t, c, c2)
		})
	}
}

func TestCollateOffsetsPerField(t *testing.T) {
	records := []Graph{
		{NumNodes: 2, X: Ones(2, 1), EdgeIndex: [][2]int{{0, 1}, {1, 0}, {0, 0}}, Y: 0, ID: NoID},
		{NumNodes: 3, X: Ones(3, 1), EdgeIndex: [][2]int{{2, 1}}, Y: 1, ID: NoID},
	}
	c, err := Collate(records)
	require.NoError(t, err)
	assert.Equal(t, ragged.Offsets{0, 2, 5}, c.Slices[FieldX])
	assert.Equal(t, ragged.Offsets{0, 3, 4}, c.Slices[FieldEdgeIndex])
	assert.Equal(t, ragged.Offsets{0, 1, 2}, c.Slices[FieldY])
	_, hasAttr := c.Slices[FieldEdgeAttr]
	assert.False(t, hasAttr)
	assert.False(t, c.HasIDs())
	assert.Equal(t, []int{2, 3}, c.NumNodes)
}

func TestCollateEmpty(t *testing.T) {
	c, err := Collate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Count())
	require.NoError(t, c.Validate())
	_, err = c.Get(0)
	assert.ErrorIs(t, err, errkind.ErrIndex)
}

func TestCollateRejectsMixedFields(t *testing.T) {
	records := randomRecords(3, 3, 2, 0)
	records[1].X = nil
	_, err := Collate(records)
	assert.ErrorIs(t, err, errkind.ErrFormat)

	records = randomRecords(3, 3, 2, 0)
	records[2].X = NewMatrix(records[2].NumNodes, 5)
	_, err = Collate(records)
	assert.ErrorIs(t, err, errkind.ErrFormat)

	records = randomRecords(4, 2, 0, 1)
	records[0].EdgeAttr = NewMatrix(len(records[0].EdgeIndex)+1, 1)
	_, err = Collate(records)
	assert.ErrorIs(t, err, errkind.ErrFormat)
}

func TestGetOutOfRange(t *testing.T) {
	c, err := Collate(randomRecords(5, 4, 1, 0))
	require.NoError(t, err)
	for _, k := range []int{-1, 4, 100} {
		_, err := c.Get(k)
		assert.ErrorIs(t, err, errkind.ErrIndex, "k=%d", k)
	}
}

func TestValidateDetectsInconsistentOffsets(t *testing.T) {
	c, err := Collate(randomRecords(6, 5, 2, 1))
	require.NoError(t, err)

	broken := *c
	broken.Slices = c.Slices.Clone()
	broken.Slices[FieldX] = broken.Slices[FieldX][:3]
	assert.ErrorIs(t, broken.Validate(), errkind.ErrFormat)

	broken.Slices = c.Slices.Clone()
	broken.Slices[FieldX][len(broken.Slices[FieldX])-1]++
	assert.ErrorIs(t, broken.Validate(), errkind.ErrFormat)

	broken.Slices = c.Slices.Clone()
	broken.IDs = []int{0, 1, 2, 3, 4}
	assert.ErrorIs(t, broken.Validate(), errkind.ErrFormat, "ids stored without offsets")
}

func TestFilterThenAssignIDs(t *testing.T) {
	records := randomRecords(7, 10, 2, 0)
	for i := range records {
		records[i].Y = i % 2
		records[i].NumNodes = len(records[i].EdgeIndex) + i
		records[i].X = Ones(records[i].NumNodes, 2)
	}
	c, err := Collate(records)
	require.NoError(t, err)

	require.NoError(t, c.Filter(func(g Graph) bool { return g.Y == 1 }))
	require.Equal(t, 5, c.Count())
	require.NoError(t, c.Validate())

	c.AssignIDs()
	require.NoError(t, c.Validate())
	for k := 0; k < c.Count(); k++ {
		g, err := c.Get(k)
		require.NoError(t, err)
		assert.Equal(t, k, g.ID)
		assert.Equal(t, 1, g.Y)
		assert.Equal(t, records[2*k+1].NumNodes, g.NumNodes, "order kept")
	}
}

func TestMapReplacesFields(t *testing.T) {
	c, err := Collate(randomRecords(8, 6, 3, 0))
	require.NoError(t, err)

	err = c.Map(func(g Graph) (Graph, error) {
		g.X = Ones(g.NumNodes, 1)
		g.Y = 1 - g.Y
		return g, nil
	})
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, 1, c.NumFeatures())
	for k := 0; k < c.Count(); k++ {
		g, err := c.Get(k)
		require.NoError(t, err)
		assert.Equal(t, g.NumNodes, g.X.Rows)
	}
}

func TestMapPropagatesError(t *testing.T) {
	c, err := Collate(randomRecords(9, 3, 1, 0))
	require.NoError(t, err)
	before := c.Count()
	err = c.Map(func(g Graph) (Graph, error) {
		return g, errkind.Formatf("boom")
	})
	assert.ErrorIs(t, err, errkind.ErrFormat)
	assert.Equal(t, before, c.Count())
}

func TestLabelsAndClasses(t *testing.T) {
	records := randomRecords(10, 4, 0, 0)
	for i, y := range []int{0, 2, 1, 2} {
		records[i].Y = y
	}
	c, err := Collate(records)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 2}, c.Labels())
	assert.Equal(t, 3, c.NumClasses())
	assert.Equal(t, 0, c.NumFeatures())
}
