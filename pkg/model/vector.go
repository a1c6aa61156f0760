package model

import (
	"github.com/yumyai/bgcclass/pkg/embed"
	"github.com/yumyai/bgcclass/pkg/errs"
)

// ClusterVector is the unweighted sum of the embeddings of a cluster. A nil
// *ClusterVector is absent: nothing was added to it, and it is not a zero vector.
type ClusterVector struct {
	rows          [][]float64
	contributions int
}

// Add accumulates e in place. The first call takes a copy of e as the vector; later calls
// must match its shape.
func (v *ClusterVector) Add(e embed.Embedding) error {
	if v.rows == nil {
		v.rows = e.Clone()
		v.contributions = 1
		return nil
	}
	if len(e) != len(v.rows) {
		return &errs.ShapeMismatchError{Stage: "aggregate rows", Want: len(v.rows), Got: len(e)}
	}
	for i := range e {
		if len(e[i]) != len(v.rows[i]) {
			return &errs.ShapeMismatchError{Stage: "aggregate", Want: embed.Embedding(v.rows).Len(), Got: e.Len()}
		}
	}
	for i, row := range e {
		for j, x := range row {
			v.rows[i][j] += x
		}
	}
	v.contributions++
	return nil
}

// Rows returns a copy of the summed matrix.
func (v *ClusterVector) Rows() [][]float64 {
	if v == nil {
		return nil
	}
	return embed.Embedding(v.rows).Clone()
}

// Len is the flattened length.
func (v *ClusterVector) Len() int {
	if v == nil {
		return 0
	}
	return embed.Embedding(v.rows).Len()
}

// Contributions is the number of embeddings summed so far.
func (v *ClusterVector) Contributions() int {
	if v == nil {
		return 0
	}
	return v.contributions
}
