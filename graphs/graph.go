package graphs

// Field names of the ragged index.
const (
	FieldX         = "x"
	FieldEdgeIndex = "edge_index"
	FieldEdgeAttr  = "edge_attr"
	FieldY         = "y"
	FieldID        = "id"
)

// NoID marks a graph whose collection carries no id field.
const NoID = -1

// Graph is one labeled graph instance.
type Graph struct {
	// NumNodes is the node count recorded by the parser.
	NumNodes int

	// X holds one feature row per node, nil when the collection has none.
	X *Matrix

	// EdgeIndex lists (source, target) pairs with graph-local node ids.
	EdgeIndex [][2]int

	// EdgeAttr holds one row per edge, nil when the collection has none.
	EdgeAttr *Matrix

	// Y is the class label.
	Y int

	// ID is the position of the graph in the processed file order, or NoID.
	ID int
}

// NumEdges is the number of (directed) entries in the edge index.
func (g Graph) NumEdges() int {
	return len(g.EdgeIndex)
}

// Clone deep-copies g.
func (g Graph) Clone() Graph {
	out := g
	out.X = g.X.Clone()
	out.EdgeAttr = g.EdgeAttr.Clone()
	if g.EdgeIndex != nil {
		out.EdgeIndex = append([][2]int(nil), g.EdgeIndex...)
	}
	return out
}
