package model

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/yumyai/bgcclass/pkg/classifier"
	"github.com/yumyai/bgcclass/pkg/embed"
	"github.com/yumyai/bgcclass/pkg/errs"
)

// Preparer turns a cluster vector into the feature vector the classifiers were trained on.
// *preprocess.Pipeline is the production implementation.
type Preparer interface {
	InputDim() int
	OutputDim() int
	Prepare(rows [][]float64) ([]float64, error)
}

// Predictor is satisfied by *classifier.Dispatch.
type Predictor interface {
	NumFeatures() int
	NumClasses() int
	Backends() []classifier.Backend
	Predict(b classifier.Backend, x []float64) (classifier.Prediction, error)
}

// PreparedVector is the scaled and reduced cluster vector. Classifiers never modify it, so
// one PreparedVector can be sent to several backends.
type PreparedVector []float64

// Analysis chains the loaded artifacts. It holds no request state and is shared by all
// requests of the process.
type Analysis struct {
	embedder  embed.Embedder
	preparer  Preparer
	predictor Predictor
}

// NewAnalysis checks that the artifacts fit together before any request is served.
func NewAnalysis(e embed.Embedder, p Preparer, d Predictor) (*Analysis, error) {
	if e == nil || p == nil || d == nil {
		return nil, fmt.Errorf("analysis needs an embedder, a preprocessing pipeline and classifiers")
	}
	if dim := e.Dimension(); dim > 0 && dim != p.InputDim() {
		return nil, &errs.ShapeMismatchError{Stage: "embedding to scaler", Want: p.InputDim(), Got: dim}
	}
	if p.OutputDim() != d.NumFeatures() {
		return nil, &errs.ShapeMismatchError{Stage: "reducer to classifiers", Want: d.NumFeatures(), Got: p.OutputDim()}
	}
	return &Analysis{embedder: e, preparer: p, predictor: d}, nil
}

func (a *Analysis) Backends() []classifier.Backend { return a.predictor.Backends() }

func (a *Analysis) NumClasses() int { return a.predictor.NumClasses() }

// NumFeatures is the length of a prepared vector.
func (a *Analysis) NumFeatures() int { return a.predictor.NumFeatures() }

// Prepare runs the preprocessing pipeline once. An absent vector is an empty cluster and never
// reaches the pipeline.
func (a *Analysis) Prepare(v *ClusterVector) (PreparedVector, error) {
	if v == nil || v.Contributions() == 0 {
		return nil, errs.ErrEmptyCluster
	}
	if v.Len() != a.preparer.InputDim() {
		return nil, &errs.ShapeMismatchError{Stage: "cluster vector to scaler", Want: a.preparer.InputDim(), Got: v.Len()}
	}
	x, err := a.preparer.Prepare(v.Rows())
	if err != nil {
		return nil, err
	}
	return PreparedVector(x), nil
}

// Classify runs a prepared vector through one backend.
func (a *Analysis) Classify(b classifier.Backend, x PreparedVector) (classifier.Prediction, error) {
	return a.predictor.Predict(b, x)
}

// Report is the result of one analysis request.
type Report struct {
	Cluster     Cluster
	Prepared    PreparedVector
	Predictions []classifier.Prediction
}

// Analyze reads one record from r and classifies it with every backend in backends, in the
// given order. The backends are checked before the record is read. ctx is consulted between
// stages; a stage that has started always runs to completion.
func (a *Analysis) Analyze(ctx context.Context, r io.Reader, backends ...classifier.Backend) (*Report, error) {
	if len(backends) == 0 {
		backends = a.Backends()
	}
	loaded := a.Backends()
	for _, b := range backends {
		if !slices.Contains(loaded, b) {
			return nil, fmt.Errorf("%w: %s", errs.ErrUnknownBackend, b)
		}
	}

	cluster, vector, err := ReadCluster(r, a.embedder)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared, err := a.Prepare(vector)
	if err != nil {
		return nil, err
	}

	report := &Report{Cluster: cluster, Prepared: prepared}
	for _, b := range backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pred, err := a.Classify(b, prepared)
		if err != nil {
			return nil, err
		}
		report.Predictions = append(report.Predictions, pred)
	}
	return report, nil
}
