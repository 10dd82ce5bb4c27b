// Package ragged maps variable-length records stored back to back in one
// flat array onto per-item boundaries.
//
// An Offsets value for N items holds N+1 non-decreasing integers starting at
// zero; item k occupies [offsets[k], offsets[k+1]) of the flat array. Offsets
// are always rebuilt whole, partial updates are not supported.
package ragged

import (
	"sort"

	"github.com/Noofbiz/tugraphs/errkind"
)

// Offsets is the boundary table of one flat field.
type Offsets []int

// Build returns the cumulative sum of lengths prefixed with 0.
func Build(lengths []int) (Offsets, error) {
	offs := make(Offsets, len(lengths)+1)
	for i, l := range lengths {
		if l < 0 {
			return nil, errkind.Formatf("ragged: negative length %d at item %d", l, i)
		}
		offs[i+1] = offs[i] + l
	}
	return offs, nil
}

// Unit returns offsets for n items of length one each (graph-level fields).
func Unit(n int) Offsets {
	offs := make(Offsets, n+1)
	for i := range offs {
		offs[i] = i
	}
	return offs
}

// Len is the number of items described by o.
func (o Offsets) Len() int {
	if len(o) == 0 {
		return 0
	}
	return len(o) - 1
}

// Total is the length of the flat array described by o.
func (o Offsets) Total() int {
	if len(o) == 0 {
		return 0
	}
	return o[len(o)-1]
}

// Slice returns the half-open bounds of item k.
func (o Offsets) Slice(k int) (start, end int, err error) {
	if k < 0 || k > len(o)-2 {
		return 0, 0, errkind.Indexf("ragged: item %d out of range [0, %d)", k, o.Len())
	}
	return o[k], o[k+1], nil
}

// Lengths is the inverse of Build.
func (o Offsets) Lengths() []int {
	if len(o) == 0 {
		return nil
	}
	ls := make([]int, len(o)-1)
	for i := range ls {
		ls[i] = o[i+1] - o[i]
	}
	return ls
}

// Validate checks that o starts at 0, never decreases and ends at total.
func (o Offsets) Validate(total int) error {
	if len(o) == 0 {
		return errkind.Formatf("ragged: empty offsets")
	}
	if o[0] != 0 {
		return errkind.Formatf("ragged: offsets start at %d, want 0", o[0])
	}
	for i := 0; i+1 < len(o); i++ {
		if o[i] > o[i+1] {
			return errkind.Formatf("ragged: offsets decrease at %d (%d > %d)", i, o[i], o[i+1])
		}
	}
	if o.Total() != total {
		return errkind.Formatf("ragged: offsets end at %d, field has %d entries", o.Total(), total)
	}
	return nil
}

// Clone returns an independent copy.
func (o Offsets) Clone() Offsets {
	if o == nil {
		return nil
	}
	c := make(Offsets, len(o))
	copy(c, o)
	return c
}

// Index keys each stored field by name to its own boundary table. Fields of
// different granularity (node, edge, graph) share the item count but not the
// boundary values.
type Index map[string]Offsets

// Fields returns the field names in sorted order.
func (ix Index) Fields() []string {
	names := make([]string, 0, len(ix))
	for name := range ix {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the common item count, or 0 for an empty index.
func (ix Index) Len() int {
	for _, name := range ix.Fields() {
		return ix[name].Len()
	}
	return 0
}

// Validate checks that every field describes the same number of items.
func (ix Index) Validate() error {
	n := -1
	for _, name := range ix.Fields() {
		offs := ix[name]
		if len(offs) == 0 {
			return errkind.Formatf("ragged: field %q has no offsets", name)
		}
		if n == -1 {
			n = offs.Len()
			continue
		}
		if offs.Len() != n {
			return errkind.Formatf("ragged: field %q describes %d items, want %d", name, offs.Len(), n)
		}
	}
	return nil
}

// Clone deep-copies the index.
func (ix Index) Clone() Index {
	c := make(Index, len(ix))
	for name, offs := range ix {
		c[name] = offs.Clone()
	}
	return c
}
