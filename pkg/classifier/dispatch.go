package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/yumyai/bgcclass/pkg/errs"
)

// Probability sums further than this from 1 are treated as a broken backend.
const probabilityTolerance = 1e-6

// Dispatch holds the loaded models, shared read-only between requests.
type Dispatch struct {
	models   map[Backend]Model
	order    []Backend
	features int
	classes  int
}

// NewDispatch requires every model to agree on the feature and class counts.
func NewDispatch(models map[Backend]Model) (*Dispatch, error) {
	if len(models) == 0 {
		return nil, errors.New("no classifier models")
	}

	d := &Dispatch{models: make(map[Backend]Model, len(models)), features: -1}
	for _, b := range AllBackends {
		m, ok := models[b]
		if !ok {
			continue
		}
		if d.features == -1 {
			d.features, d.classes = m.NumFeatures(), m.NumClasses()
		}
		if m.NumFeatures() != d.features {
			return nil, &errs.ShapeMismatchError{Stage: string(b) + " features", Want: d.features, Got: m.NumFeatures()}
		}
		if m.NumClasses() != d.classes {
			return nil, &errs.ShapeMismatchError{Stage: string(b) + " classes", Want: d.classes, Got: m.NumClasses()}
		}
		d.models[b] = m
		d.order = append(d.order, b)
	}
	if len(d.models) != len(models) {
		for b := range models {
			if _, ok := ParseBackend(string(b)); !ok {
				return nil, fmt.Errorf("%w: %s", errs.ErrUnknownBackend, b)
			}
		}
	}
	return d, nil
}

// Backends lists the loaded backends in canonical order.
func (d *Dispatch) Backends() []Backend {
	return append([]Backend(nil), d.order...)
}

func (d *Dispatch) NumFeatures() int { return d.features }

func (d *Dispatch) NumClasses() int { return d.classes }

// Predict runs x through one backend. The vector is checked against the model before the
// model sees it, and anything the model raises comes back as a BackendFailure.
func (d *Dispatch) Predict(b Backend, x []float64) (Prediction, error) {
	m, ok := d.models[b]
	if !ok {
		return Prediction{}, fmt.Errorf("%w: %s", errs.ErrUnknownBackend, b)
	}
	if len(x) != m.NumFeatures() {
		return Prediction{}, &errs.ShapeMismatchError{Stage: string(b), Want: m.NumFeatures(), Got: len(x)}
	}

	proba, err := predictSafely(m, append([]float64(nil), x...))
	if err == nil {
		proba, err = checkProbabilities(proba, m.NumClasses())
	}
	if err != nil {
		return Prediction{}, &errs.BackendFailure{Backend: string(b), Err: err}
	}

	return Prediction{Backend: b, Class: argmax(proba), Probabilities: proba}, nil
}

func predictSafely(m Model, x []float64) (proba []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during prediction: %v", r)
		}
	}()
	return m.PredictProba(x)
}

// checkProbabilities rejects anything that is not a distribution over the expected classes
// and removes rounding drift from the sum.
func checkProbabilities(p []float64, classes int) ([]float64, error) {
	if len(p) != classes {
		return nil, fmt.Errorf("returned %d probabilities for %d classes", len(p), classes)
	}
	sum := 0.0
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("probability %d is %v", i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return nil, fmt.Errorf("probabilities sum to %v", sum)
	}
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v / sum
	}
	return out, nil
}
