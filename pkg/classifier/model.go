// Package classifier runs prepared feature vectors through pre-trained classifier artifacts.
// Every backend exposes the same contract: a vector of NumFeatures values in, a probability
// per class out. The predicted class is always derived from the probabilities.
package classifier

import (
	"fmt"
	"math"
)

// Backend names a classifier variant. The values are the route names of the service.
type Backend string

const (
	RandomForest  Backend = "random_forest"
	AdaBoost      Backend = "adaboost_random_forest"
	XGBoost       Backend = "xgboost"
	KNN           Backend = "knn"
	NeuralNetwork Backend = "nn"
)

// AllBackends in their canonical order.
var AllBackends = []Backend{RandomForest, AdaBoost, XGBoost, KNN, NeuralNetwork}

func (b Backend) String() string { return string(b) }

func ParseBackend(name string) (Backend, bool) {
	for _, b := range AllBackends {
		if string(b) == name {
			return b, true
		}
	}
	return "", false
}

// Model is a loaded, read-only classifier artifact. PredictProba must not modify x and
// must be safe for concurrent use.
type Model interface {
	NumFeatures() int
	NumClasses() int
	PredictProba(x []float64) ([]float64, error)
}

// Prediction is a successful classification. Failures are returned as errors, never as a Prediction.
type Prediction struct {
	Backend       Backend   `json:"backend"`
	Class         int       `json:"class"`
	Probabilities []float64 `json:"probabilities"`
}

// shape is embedded by every model and filled from the artifact envelope.
type shape struct {
	Features int `json:"-"`
	Classes  int `json:"-"`
}

func (s shape) NumFeatures() int { return s.Features }

func (s shape) NumClasses() int { return s.Classes }

// argmax returns the first index holding the maximum.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func softmax(z []float64) []float64 {
	top := z[argmax(z)]
	out := make([]float64, len(z))
	sum := 0.0
	for i, v := range z {
		out[i] = math.Exp(v - top)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func normalize(v []float64) ([]float64, error) {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("cannot normalize distribution with sum %v", sum)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / sum
	}
	return out, nil
}
