package classifier

import (
	"errors"
	"fmt"
)

const leafChild = -1

// Tree is a binary decision tree stored as parallel node arrays (node 0 is the root).
// A node is a leaf when its left child is -1. Value holds the class distribution of a
// classification leaf, or a single score for a regression leaf.
type Tree struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"children_left"`
	Right     []int       `json:"children_right"`
	Value     [][]float64 `json:"value"`
}

// leaf walks x down the tree. Samples go left when x[f] <= threshold, or x[f] < threshold
// when strict is set (the convention of gradient boosting dumps).
func (t *Tree) leaf(x []float64, strict bool) int {
	i := 0
	for t.Left[i] != leafChild {
		v := x[t.Feature[i]]
		goLeft := v <= t.Threshold[i]
		if strict {
			goLeft = v < t.Threshold[i]
		}
		if goLeft {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return i
}

// validate checks the arrays agree and that every child index is greater than its parent,
// which guarantees leaf terminates.
func (t *Tree) validate(nFeatures, valueLen int) error {
	n := len(t.Left)
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(t.Right) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return errors.New("tree node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		if t.Left[i] == leafChild {
			if len(t.Value[i]) != valueLen {
				return fmt.Errorf("leaf %d has %d values, expected %d", i, len(t.Value[i]), valueLen)
			}
			continue
		}
		if t.Left[i] <= i || t.Left[i] >= n || t.Right[i] <= i || t.Right[i] >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, t.Left[i], t.Right[i])
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, t.Feature[i], nFeatures)
		}
	}
	return nil
}
