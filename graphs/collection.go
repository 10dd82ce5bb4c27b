package graphs

import (
	"github.com/Noofbiz/tugraphs/errkind"
	"github.com/Noofbiz/tugraphs/ragged"
)

// Collection is the concatenated storage of N graphs.
//
// Fields are exported so the collection can be gob-encoded as a cache blob.
type Collection struct {
	X         *Matrix
	EdgeIndex [][2]int
	EdgeAttr  *Matrix
	Y         []int
	IDs       []int

	// NumNodes holds the parser's node count for each graph.
	NumNodes []int

	Slices ragged.Index
}

// Count returns the number of graphs.
func (c *Collection) Count() int {
	return len(c.NumNodes)
}

// HasIDs reports whether the id field has been assigned.
func (c *Collection) HasIDs() bool {
	_, ok := c.Slices[FieldID]
	return ok
}

// Validate checks that every stored field agrees with its offsets and that
// all offsets describe Count() graphs.
func (c *Collection) Validate() error {
	if err := c.Slices.Validate(); err != nil {
		return err
	}
	n := c.Count()
	if _, ok := c.Slices[FieldY]; !ok {
		return errkind.Formatf("graphs: collection has no %q field", FieldY)
	}
	if c.Slices.Len() != n {
		return errkind.Formatf("graphs: offsets describe %d graphs, collection has %d", c.Slices.Len(), n)
	}

	check := func(field string, present bool, total int) error {
		offs, ok := c.Slices[field]
		switch {
		case present && !ok:
			return errkind.Formatf("graphs: field %q stored without offsets", field)
		case !present && ok:
			return errkind.Formatf("graphs: offsets for missing field %q", field)
		case !present:
			return nil
		}
		if err := offs.Validate(total); err != nil {
			return errkind.Formatf("graphs: field %q: %v", field, err)
		}
		return nil
	}

	xRows := 0
	if c.X != nil {
		xRows = c.X.Rows
	}
	if err := check(FieldX, c.X != nil, xRows); err != nil {
		return err
	}
	if err := check(FieldEdgeIndex, true, len(c.EdgeIndex)); err != nil {
		return err
	}
	eRows := 0
	if c.EdgeAttr != nil {
		eRows = c.EdgeAttr.Rows
		if eRows != len(c.EdgeIndex) {
			return errkind.Formatf("graphs: %d edge attribute rows for %d edges", eRows, len(c.EdgeIndex))
		}
	}
	if err := check(FieldEdgeAttr, c.EdgeAttr != nil, eRows); err != nil {
		return err
	}
	if err := check(FieldY, true, len(c.Y)); err != nil {
		return err
	}
	return check(FieldID, c.IDs != nil, len(c.IDs))
}

// Get reassembles graph k by slicing every stored field through its own
// offsets. Fields absent from storage stay nil.
func (c *Collection) Get(k int) (Graph, error) {
	if k < 0 || k >= c.Count() {
		return Graph{}, errkind.Indexf("graphs: graph %d out of range [0, %d)", k, c.Count())
	}
	g := Graph{NumNodes: c.NumNodes[k], ID: NoID}

	if c.X != nil {
		s, e, err := c.Slices[FieldX].Slice(k)
		if err != nil {
			return Graph{}, err
		}
		g.X = c.X.RowRange(s, e)
	}

	s, e, err := c.Slices[FieldEdgeIndex].Slice(k)
	if err != nil {
		return Graph{}, err
	}
	g.EdgeIndex = make([][2]int, e-s)
	copy(g.EdgeIndex, c.EdgeIndex[s:e])

	if c.EdgeAttr != nil {
		s, e, err := c.Slices[FieldEdgeAttr].Slice(k)
		if err != nil {
			return Graph{}, err
		}
		g.EdgeAttr = c.EdgeAttr.RowRange(s, e)
	}

	s, _, err = c.Slices[FieldY].Slice(k)
	if err != nil {
		return Graph{}, err
	}
	g.Y = c.Y[s]

	if c.IDs != nil {
		s, _, err := c.Slices[FieldID].Slice(k)
		if err != nil {
			return Graph{}, err
		}
		g.ID = c.IDs[s]
	}
	return g, nil
}

// Records materializes every graph in storage order.
func (c *Collection) Records() ([]Graph, error) {
	records := make([]Graph, c.Count())
	for k := range records {
		g, err := c.Get(k)
		if err != nil {
			return nil, err
		}
		records[k] = g
	}
	return records, nil
}

// Collate concatenates records into a new collection and rebuilds all
// offsets. It is the inverse of Get: collating the unmodified records of a
// collection reproduces its storage exactly.
//
// All records must agree on which optional fields they carry and on the
// width of their feature matrices.
func Collate(records []Graph) (*Collection, error) {
	c := &Collection{
		EdgeIndex: [][2]int{},
		Y:         make([]int, 0, len(records)),
		NumNodes:  make([]int, 0, len(records)),
		Slices:    ragged.Index{},
	}
	if len(records) == 0 {
		c.Slices[FieldEdgeIndex] = ragged.Offsets{0}
		c.Slices[FieldY] = ragged.Unit(0)
		return c, nil
	}

	first := records[0]
	hasX, hasEdgeAttr, hasID := first.X != nil, first.EdgeAttr != nil, first.ID != NoID
	var xCols, eCols int
	if hasX {
		xCols = first.X.Cols
	}
	if hasEdgeAttr {
		eCols = first.EdgeAttr.Cols
	}

	xLens := make([]int, len(records))
	eLens := make([]int, len(records))
	xRows, eRows := 0, 0
	for k, g := range records {
		if (g.X != nil) != hasX || (g.EdgeAttr != nil) != hasEdgeAttr || (g.ID != NoID) != hasID {
			return nil, errkind.Formatf("graphs: graph %d carries a different set of fields than graph 0", k)
		}
		if hasX {
			if g.X.Cols != xCols {
				return nil, errkind.Formatf("graphs: graph %d has %d node feature columns, want %d", k, g.X.Cols, xCols)
			}
			xLens[k] = g.X.Rows
			xRows += g.X.Rows
		}
		if hasEdgeAttr {
			if g.EdgeAttr.Cols != eCols {
				return nil, errkind.Formatf("graphs: graph %d has %d edge feature columns, want %d", k, g.EdgeAttr.Cols, eCols)
			}
			if g.EdgeAttr.Rows != len(g.EdgeIndex) {
				return nil, errkind.Formatf("graphs: graph %d has %d edge attribute rows for %d edges", k, g.EdgeAttr.Rows, len(g.EdgeIndex))
			}
			eRows += g.EdgeAttr.Rows
		}
		eLens[k] = len(g.EdgeIndex)
	}

	if hasX {
		c.X = NewMatrix(0, xCols)
		c.X.Data = make([]float32, 0, xRows*xCols)
	}
	if hasEdgeAttr {
		c.EdgeAttr = NewMatrix(0, eCols)
		c.EdgeAttr.Data = make([]float32, 0, eRows*eCols)
	}
	if hasID {
		c.IDs = make([]int, 0, len(records))
	}

	for _, g := range records {
		if hasX {
			c.X.Data = append(c.X.Data, g.X.Data...)
			c.X.Rows += g.X.Rows
		}
		c.EdgeIndex = append(c.EdgeIndex, g.EdgeIndex...)
		if hasEdgeAttr {
			c.EdgeAttr.Data = append(c.EdgeAttr.Data, g.EdgeAttr.Data...)
			c.EdgeAttr.Rows += g.EdgeAttr.Rows
		}
		c.Y = append(c.Y, g.Y)
		c.NumNodes = append(c.NumNodes, g.NumNodes)
		if hasID {
			c.IDs = append(c.IDs, g.ID)
		}
	}

	var err error
	if hasX {
		if c.Slices[FieldX], err = ragged.Build(xLens); err != nil {
			return nil, err
		}
	}
	if c.Slices[FieldEdgeIndex], err = ragged.Build(eLens); err != nil {
		return nil, err
	}
	if hasEdgeAttr {
		c.Slices[FieldEdgeAttr] = c.Slices[FieldEdgeIndex].Clone()
	}
	c.Slices[FieldY] = ragged.Unit(len(records))
	if hasID {
		c.Slices[FieldID] = ragged.Unit(len(records))
	}
	return c, nil
}

// Filter keeps the graphs for which keep returns true and rebuilds storage.
func (c *Collection) Filter(keep func(Graph) bool) error {
	records, err := c.Records()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, g := range records {
		if keep(g) {
			kept = append(kept, g)
		}
	}
	return c.rebuild(kept)
}

// Map replaces every graph with fn's result and rebuilds storage.
func (c *Collection) Map(fn func(Graph) (Graph, error)) error {
	records, err := c.Records()
	if err != nil {
		return err
	}
	for k, g := range records {
		if records[k], err = fn(g); err != nil {
			return err
		}
	}
	return c.rebuild(records)
}

func (c *Collection) rebuild(records []Graph) error {
	next, err := Collate(records)
	if err != nil {
		return err
	}
	*c = *next
	return nil
}

// AssignIDs sets the id field to 0..N-1 in the current storage order.
func (c *Collection) AssignIDs() {
	n := c.Count()
	c.IDs = make([]int, n)
	for i := range c.IDs {
		c.IDs[i] = i
	}
	c.Slices[FieldID] = ragged.Unit(n)
}

// Labels returns a copy of the graph labels in storage order.
func (c *Collection) Labels() []int {
	return append([]int(nil), c.Y...)
}

// NumFeatures is the node feature width, 0 without node features.
func (c *Collection) NumFeatures() int {
	if c.X == nil {
		return 0
	}
	return c.X.Cols
}

// NumClasses is the largest label plus one.
func (c *Collection) NumClasses() int {
	classes := 0
	for _, y := range c.Y {
		if y+1 > classes {
			classes = y + 1
		}
	}
	return classes
}
