package classifier

import (
	"errors"
	"fmt"
	"math"
)

// Forest averages the normalized leaf distributions of its trees.
type Forest struct {
	shape
	Trees []Tree `json:"trees"`
}

func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	proba := make([]float64, f.Classes)
	for ti := range f.Trees {
		leaf := f.Trees[ti].leaf(x, false)
		dist, err := normalize(f.Trees[ti].Value[leaf])
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
		for k, p := range dist {
			proba[k] += p
		}
	}
	for k := range proba {
		proba[k] /= float64(len(f.Trees))
	}
	return proba, nil
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.Features, f.Classes); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

const (
	SAMME  = "SAMME"
	SAMMER = "SAMME.R"
)

// AdaBoostEnsemble combines weighted forests with the SAMME rules.
// SAMME gives each estimator's predicted class +w and every other class -w/(K-1); SAMME.R sums the
// symmetric log-probabilities of each estimator. Both map the decision to probabilities
// with softmax(decision / (K-1)).
type AdaBoostEnsemble struct {
	shape
	Algorithm  string    `json:"algorithm"`
	Estimators []Forest  `json:"estimators"`
	Weights    []float64 `json:"estimator_weights"`
}

func (a *AdaBoostEnsemble) PredictProba(x []float64) ([]float64, error) {
	k := float64(a.Classes)
	decision := make([]float64, a.Classes)
	weightSum := 0.0

	for i := range a.Estimators {
		p, err := a.Estimators[i].PredictProba(x)
		if err != nil {
			return nil, fmt.Errorf("estimator %d: %w", i, err)
		}
		w := a.Weights[i]
		weightSum += w

		if a.Algorithm == SAMMER {
			logs := make([]float64, len(p))
			mean := 0.0
			for c, v := range p {
				logs[c] = math.Log(math.Max(v, epsilon))
				mean += logs[c]
			}
			mean /= k
			for c := range logs {
				decision[c] += (k - 1) * (logs[c] - mean)
			}
			continue
		}
		vote := argmax(p)
		for c := range decision {
			if c == vote {
				decision[c] += w
			} else {
				decision[c] -= w / (k - 1)
			}
		}
	}

	if weightSum == 0 {
		return nil, errors.New("estimator weights sum to zero")
	}
	for c := range decision {
		decision[c] = decision[c] / weightSum / (k - 1)
	}
	return softmax(decision), nil
}

// machine epsilon for float64, the clip used before taking logs
const epsilon = 2.220446049250313e-16

func (a *AdaBoostEnsemble) validate() error {
	if a.Algorithm == "" {
		a.Algorithm = SAMME
	}
	if a.Algorithm != SAMME && a.Algorithm != SAMMER {
		return fmt.Errorf("unknown boosting algorithm %q", a.Algorithm)
	}
	if a.Classes < 2 {
		return errors.New("boosting needs at least two classes")
	}
	if len(a.Estimators) == 0 {
		return errors.New("ensemble has no estimators")
	}
	if a.Weights == nil {
		a.Weights = make([]float64, len(a.Estimators))
		for i := range a.Weights {
			a.Weights[i] = 1
		}
	}
	if len(a.Weights) != len(a.Estimators) {
		return fmt.Errorf("%d estimators but %d weights", len(a.Estimators), len(a.Weights))
	}
	for i := range a.Estimators {
		a.Estimators[i].shape = a.shape
		if err := a.Estimators[i].validate(); err != nil {
			return fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	return nil
}

// GradientBoostedTrees is a multi-class softprob booster: tree i adds its leaf score to the
// margin of class TreeClass[i], and margins are turned into probabilities with softmax.
// Splits use the strict x < threshold rule.
type GradientBoostedTrees struct {
	shape
	BaseScore float64 `json:"base_score"`
	Trees     []Tree  `json:"trees"`
	TreeClass []int   `json:"tree_class"`
}

func (g *GradientBoostedTrees) PredictProba(x []float64) ([]float64, error) {
	margin := make([]float64, g.Classes)
	for c := range margin {
		margin[c] = g.BaseScore
	}
	for i := range g.Trees {
		leaf := g.Trees[i].leaf(x, true)
		margin[g.TreeClass[i]] += g.Trees[i].Value[leaf][0]
	}
	for _, m := range margin {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("margin is not finite: %v", margin)
		}
	}
	return softmax(margin), nil
}

func (g *GradientBoostedTrees) validate() error {
	if len(g.Trees) == 0 {
		return errors.New("booster has no trees")
	}
	if len(g.TreeClass) != len(g.Trees) {
		return fmt.Errorf("%d trees but %d tree_class entries", len(g.Trees), len(g.TreeClass))
	}
	for i := range g.Trees {
		if g.TreeClass[i] < 0 || g.TreeClass[i] >= g.Classes {
			return fmt.Errorf("tree %d targets class %d of %d", i, g.TreeClass[i], g.Classes)
		}
		if err := g.Trees[i].validate(g.Features, 1); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
