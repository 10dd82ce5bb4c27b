package ragged

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/tugraphs/errkind"
)

func TestBuildAndSlice(t *testing.T) {
	offs, err := Build([]int{3, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, Offsets{0, 3, 3, 5}, offs)
	assert.Equal(t, 3, offs.Len())
	assert.Equal(t, 5, offs.Total())

	s, e, err := offs.Slice(0)
	require.NoError(t, err)
	assert.Equal(t, [2]int{0, 3}, [2]int{s, e})

	s, e, err = offs.Slice(1)
	require.NoError(t, err)
	assert.Equal(t, s, e, "empty item")

	s, e, err = offs.Slice(2)
	require.NoError(t, err)
	assert.Equal(t, [2]int{3, 5}, [2]int{s, e})

	for _, k := range []int{-1, 3, 10} {
		_, _, err := offs.Slice(k)
		assert.ErrorIs(t, err, errkind.ErrIndex, "k=%d", k)
	}
}

func TestBuildRejectsNegative(t *testing.T) {
	_, err := Build([]int{1, -1})
	assert.ErrorIs(t, err, errkind.ErrFormat)
}

func TestBuildEmpty(t *testing.T) {
	offs, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, Offsets{0}, offs)
	assert.Equal(t, 0, offs.Len())
	_, _, err = offs.Slice(0)
	assert.ErrorIs(t, err, errkind.ErrIndex)
}

// Offsets built from random lengths are monotone, start at zero and
// round-trip through Lengths.
func TestOffsetsMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		lengths := make([]int, rng.Intn(40))
		total := 0
		for i := range lengths {
			lengths[i] = rng.Intn(6)
			total += lengths[i]
		}
		offs, err := Build(lengths)
		require.NoError(t, err)
		require.Equal(t, 0, offs[0])
		for i := 0; i+1 < len(offs); i++ {
			require.LessOrEqual(t, offs[i], offs[i+1])
		}
		require.NoError(t, offs.Validate(total))
		if len(lengths) > 0 {
			require.Equal(t, lengths, offs.Lengths())
		}
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Offsets{}.Validate(0), errkind.ErrFormat)
	assert.ErrorIs(t, Offsets{1, 2}.Validate(2), errkind.ErrFormat)
	assert.ErrorIs(t, Offsets{0, 3, 2}.Validate(2), errkind.ErrFormat)
	assert.ErrorIs(t, Offsets{0, 2, 4}.Validate(5), errkind.ErrFormat)
	assert.NoError(t, Offsets{0, 2, 4}.Validate(4))
}

func TestUnit(t *testing.T) {
	assert.Equal(t, Offsets{0, 1, 2, 3}, Unit(3))
	assert.Equal(t, Offsets{0}, Unit(0))
}

func TestIndexValidate(t *testing.T) {
	ix := Index{
		"x":          Offsets{0, 3, 5},
		"edge_index": Offsets{0, 4, 4},
		"y":          Unit(2),
	}
	require.NoError(t, ix.Validate())
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"edge_index", "x", "y"}, ix.Fields())

	ix["id"] = Unit(3)
	assert.ErrorIs(t, ix.Validate(), errkind.ErrFormat)

	assert.Equal(t, 0, Index{}.Len())
}

func TestIndexCloneIsIndependent(t *testing.T) {
	ix := Index{"x": Offsets{0, 1}}
	c := ix.Clone()
	c["x"][1] = 9
	assert.Equal(t, 1, ix["x"][1])
}
