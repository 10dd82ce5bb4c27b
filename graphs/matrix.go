package graphs

import "github.com/Noofbiz/tugraphs/errkind"

// Matrix is a dense row-major float32 matrix.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// Ones allocates a rows x cols matrix filled with 1.
func Ones(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = 1
	}
	return m
}

// FromRows builds a matrix from equally sized rows.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, errkind.Formatf("graphs: row %d has %d columns, want %d", i, len(r), cols)
		}
		copy(m.Data[i*cols:], r)
	}
	return m, nil
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float32 {
	return m.Data[i*m.Cols+j]
}

// Set assigns element (i, j).
func (m *Matrix) Set(i, j int, v float32) {
	m.Data[i*m.Cols+j] = v
}

// Row returns row i as a view into m.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// RowRange copies rows [start, end) into a new matrix.
func (m *Matrix) RowRange(start, end int) *Matrix {
	out := NewMatrix(end-start, m.Cols)
	copy(out.Data, m.Data[start*m.Cols:end*m.Cols])
	return out
}

// ColumnsFrom copies columns [from, Cols) into a new matrix.
func (m *Matrix) ColumnsFrom(from int) *Matrix {
	if from < 0 {
		from = 0
	}
	if from > m.Cols {
		from = m.Cols
	}
	out := NewMatrix(m.Rows, m.Cols-from)
	for i := 0; i < m.Rows; i++ {
		copy(out.Row(i), m.Row(i)[from:])
	}
	return out
}

// Clone deep-copies m. Clone of nil is nil.
func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return nil
	}
	out := NewMatrix(m.Rows, m.Cols)
	copy(out.Data, m.Data)
	return out
}

// ToRows returns the matrix as a slice of row copies.
func (m *Matrix) ToRows() [][]float32 {
	rows := make([][]float32, m.Rows)
	for i := range rows {
		rows[i] = append([]float32(nil), m.Row(i)...)
	}
	return rows
}

// isOneHotFrom reports whether every row of columns [from, Cols) is a one-hot
// vector: entries in {0, 1} summing to 1.
func (m *Matrix) isOneHotFrom(from int) bool {
	for i := 0; i < m.Rows; i++ {
		var sum float32
		for _, v := range m.Row(i)[from:] {
			if v != 0 && v != 1 {
				return false
			}
			sum += v
		}
		if sum != 1 {
			return false
		}
	}
	return true
}

// sumFrom adds up every entry of columns [from, Cols).
func (m *Matrix) sumFrom(from int) float64 {
	var sum float64
	for i := 0; i < m.Rows; i++ {
		for _, v := range m.Row(i)[from:] {
			sum += float64(v)
		}
	}
	return sum
}
