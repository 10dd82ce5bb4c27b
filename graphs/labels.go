package graphs

// The label/attribute split below is a heuristic. It assumes that label
// columns are stored after attribute columns and that they are mutually
// exclusive binary indicators; nothing in storage records the split.

// NumNodeLabels returns the width of the trailing block of node feature
// columns in which every row is one-hot. The widest such block wins.
func (c *Collection) NumNodeLabels() int {
	if c.X == nil {
		return 0
	}
	for i := 0; i < c.X.Cols; i++ {
		if c.X.isOneHotFrom(i) {
			return c.X.Cols - i
		}
	}
	return 0
}

// NumNodeAttributes is the node feature width left of the label block.
func (c *Collection) NumNodeAttributes() int {
	if c.X == nil {
		return 0
	}
	return c.X.Cols - c.NumNodeLabels()
}

// NumEdgeLabels returns the width of the first trailing block of edge
// feature columns whose grand total equals the number of edges. This is a
// looser test than the node one-hot check.
func (c *Collection) NumEdgeLabels() int {
	if c.EdgeAttr == nil {
		return 0
	}
	for i := 0; i < c.EdgeAttr.Cols; i++ {
		if c.EdgeAttr.sumFrom(i) == float64(c.EdgeAttr.Rows) {
			return c.EdgeAttr.Cols - i
		}
	}
	return 0
}

// NumEdgeAttributes is the edge feature width left of the label block.
func (c *Collection) NumEdgeAttributes() int {
	if c.EdgeAttr == nil {
		return 0
	}
	return c.EdgeAttr.Cols - c.NumEdgeLabels()
}

// DropNodeColumns keeps node feature columns [from, Cols). Offsets are
// unchanged since rows are untouched.
func (c *Collection) DropNodeColumns(from int) {
	if c.X == nil {
		return
	}
	c.X = c.X.ColumnsFrom(from)
}

// DropEdgeColumns keeps edge feature columns [from, Cols).
func (c *Collection) DropEdgeColumns(from int) {
	if c.EdgeAttr == nil {
		return
	}
	c.EdgeAttr = c.EdgeAttr.ColumnsFrom(from)
}
