// Package split partitions labeled items into train, validation and test
// position sets with exact per-class counts.
//
// Class labels are used directly as positions in the count vectors, so they
// must form a contiguous 0-based range. The imbalance helpers are binary by
// design: ImbalanceCounts yields two-slot vectors and Stratified rejects
// labels outside {0, 1}. StratifiedCounts takes vectors of any arity.
package split

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/Noofbiz/tugraphs/errkind"
)

// Result is a split assignment plus the per-class counts that produced it.
type Result struct {
	Train []int
	Val   []int
	Test  []int

	TrainCounts []int
	ValCounts   []int
}

// ImbalanceCounts turns an imbalance ratio into binary per-class counts:
// class 0 gets floor(r*n) and class 1 the remainder, for both splits.
func ImbalanceCounts(ratio float64, numTrain, numVal int) (train, val []int, err error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, nil, errkind.Configf("split: imbalance ratio %v outside [0, 1]", ratio)
	}
	if numTrain < 0 || numVal < 0 {
		return nil, nil, errkind.Configf("split: negative split size (train=%d, val=%d)", numTrain, numVal)
	}
	share := func(n int) []int {
		c0 := int(math.Floor(ratio * float64(n)))
		return []int{c0, n - c0}
	}
	return share(numTrain), share(numVal), nil
}

// Stratified splits labels 0/1 so that train holds floor(r*numTrain) graphs
// of class 0 and the rest of class 1, and likewise for val. The remainder of
// every class goes to test.
func Stratified(labels []int, ratio float64, numTrain, numVal int, rng *rand.Rand) (*Result, error) {
	train, val, err := ImbalanceCounts(ratio, numTrain, numVal)
	if err != nil {
		return nil, err
	}
	return StratifiedCounts(labels, train, val, rng)
}

// StratifiedCounts permutes the positions of every class independently with
// rng and hands out trainCounts[c] of them to train, the next valCounts[c]
// to val and the rest to test. Output is concatenated in class order.
func StratifiedCounts(labels []int, trainCounts, valCounts []int, rng *rand.Rand) (*Result, error) {
	if rng == nil {
		return nil, errkind.Configf("split: a seeded *rand.Rand is required")
	}
	if len(trainCounts) != len(valCounts) {
		return nil, errkind.Configf("split: train counts have %d classes, val counts %d", len(trainCounts), len(valCounts))
	}
	for c := range trainCounts {
		if trainCounts[c] < 0 || valCounts[c] < 0 {
			return nil, errkind.Configf("split: negative count for class %d", c)
		}
	}

	byClass := make(map[int][]int)
	for i, y := range labels {
		if y < 0 || y >= len(trainCounts) {
			return nil, errkind.Indexf("split: label %d of item %d is not a class index in [0, %d)", y, i, len(trainCounts))
		}
		byClass[y] = append(byClass[y], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	for rank, c := range classes {
		if c != rank {
			return nil, errkind.Indexf("split: observed classes %v are not a contiguous range starting at 0", classes)
		}
	}
	for c := range trainCounts {
		need, have := trainCounts[c]+valCounts[c], len(byClass[c])
		if need > have {
			return nil, errkind.Both(
				fmt.Sprintf("split: class %d needs %d graphs for train+val, has %d", c, need, have),
				errkind.ErrIndex, errkind.ErrConfig,
			)
		}
	}

	res := &Result{
		Train:       []int{},
		Val:         []int{},
		Test:        []int{},
		TrainCounts: append([]int(nil), trainCounts...),
		ValCounts:   append([]int(nil), valCounts...),
	}
	for _, c := range classes {
		idx := byClass[c]
		perm := rng.Perm(len(idx))
		shuffled := make([]int, len(idx))
		for i, p := range perm {
			shuffled[i] = idx[p]
		}
		nt, nv := trainCounts[c], valCounts[c]
		res.Train = append(res.Train, shuffled[:nt]...)
		res.Val = append(res.Val, shuffled[nt:nt+nv]...)
		res.Test = append(res.Test, shuffled[nt+nv:]...)
	}
	return res, nil
}
