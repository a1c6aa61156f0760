// Package preprocess applies the fitted scaler and dimensionality reduction that every
// classifier was trained behind. The order is fixed: flatten, scale, reduce.
package preprocess

import (
	"fmt"

	"github.com/yumyai/bgcclass/pkg/errs"
)

// Transformer is a fitted, read-only transform of a single sample.
// Transform must not modify x.
type Transformer interface {
	Name() string
	InputDim() int
	OutputDim() int
	Transform(x []float64) ([]float64, error)
}

type Pipeline struct {
	scaler  Transformer
	reducer Transformer
}

func NewPipeline(scaler, reducer Transformer) (*Pipeline, error) {
	if scaler == nil || reducer == nil {
		return nil, fmt.Errorf("pipeline needs both a scaler and a reducer")
	}
	if scaler.OutputDim() != reducer.InputDim() {
		return nil, &errs.ShapeMismatchError{
			Stage: reducer.Name() + " input",
			Want:  reducer.InputDim(),
			Got:   scaler.OutputDim(),
		}
	}
	return &Pipeline{scaler: scaler, reducer: reducer}, nil
}

func (p *Pipeline) InputDim() int { return p.scaler.InputDim() }

func (p *Pipeline) OutputDim() int { return p.reducer.OutputDim() }

// Prepare flattens rows, then scales, then reduces. Each step runs exactly once.
func (p *Pipeline) Prepare(rows [][]float64) ([]float64, error) {
	x := Flatten(rows)

	scaled, err := apply(p.scaler, x)
	if err != nil {
		return nil, err
	}
	return apply(p.reducer, scaled)
}

func apply(t Transformer, x []float64) ([]float64, error) {
	if len(x) != t.InputDim() {
		return nil, &errs.ShapeMismatchError{Stage: t.Name(), Want: t.InputDim(), Got: len(x)}
	}
	out, err := t.Transform(x)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name(), err)
	}
	if len(out) != t.OutputDim() {
		return nil, &errs.ShapeMismatchError{Stage: t.Name() + " output", Want: t.OutputDim(), Got: len(out)}
	}
	return out, nil
}

// Flatten concatenates rows into a new one-dimensional slice.
func Flatten(rows [][]float64) []float64 {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	out := make([]float64, 0, n)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
