package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// KNeighbors votes among the K nearest stored training samples (Minkowski distance, P=2 by default).
// With "distance" weights each vote counts 1/d; exact matches take all the weight.
type KNeighbors struct {
	shape
	K       int         `json:"n_neighbors"`
	Weights string      `json:"weights"`
	P       float64     `json:"p"`
	X       [][]float64 `json:"fit_x"`
	Y       []int       `json:"fit_y"`
}

func (m *KNeighbors) PredictProba(x []float64) ([]float64, error) {
	type candidate struct {
		index int
		dist  float64
	}
	cands := make([]candidate, len(m.X))
	for i, row := range m.X {
		cands[i] = candidate{index: i, dist: minkowski(x, row, m.P)}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
	cands = cands[:m.K]

	votes := make([]float64, m.Classes)
	if m.Weights == "distance" {
		exact := false
		for _, c := range cands {
			if c.dist == 0 {
				exact = true
				votes[m.Y[c.index]]++
			}
		}
		if !exact {
			for _, c := range cands {
				votes[m.Y[c.index]] += 1 / c.dist
			}
		}
	} else {
		for _, c := range cands {
			votes[m.Y[c.index]]++
		}
	}
	return normalize(votes)
}

func minkowski(a, b []float64, p float64) float64 {
	if p == 2 {
		s := 0.0
		for i := range a {
			d := a[i] - b[i]
			s += d * d
		}
		return math.Sqrt(s)
	}
	s := 0.0
	for i := range a {
		s += math.Pow(math.Abs(a[i]-b[i]), p)
	}
	return math.Pow(s, 1/p)
}

func (m *KNeighbors) validate() error {
	if m.P == 0 {
		m.P = 2
	}
	if m.P < 1 {
		return fmt.Errorf("minkowski p must be >= 1, got %v", m.P)
	}
	if m.Weights == "" {
		m.Weights = "uniform"
	}
	if m.Weights != "uniform" && m.Weights != "distance" {
		return fmt.Errorf("unknown weighting %q", m.Weights)
	}
	if len(m.X) == 0 || len(m.X) != len(m.Y) {
		return fmt.Errorf("knn has %d samples and %d labels", len(m.X), len(m.Y))
	}
	if m.K <= 0 || m.K > len(m.X) {
		return fmt.Errorf("n_neighbors %d out of range for %d samples", m.K, len(m.X))
	}
	for i := range m.X {
		if len(m.X[i]) != m.Features {
			return fmt.Errorf("sample %d has %d features, expected %d", i, len(m.X[i]), m.Features)
		}
		if m.Y[i] < 0 || m.Y[i] >= m.Classes {
			return fmt.Errorf("sample %d has label %d of %d classes", i, m.Y[i], m.Classes)
		}
	}
	return nil
}

// MLP is a feed-forward network. Coefs[l] is an in x out weight matrix.
// Hidden layers use Activation; the output layer uses softmax, or logistic for a
// single-unit binary output.
type MLP struct {
	shape
	Activation string        `json:"activation"`
	Coefs      [][][]float64 `json:"coefs"`
	Intercepts [][]float64   `json:"intercepts"`
}

func (m *MLP) PredictProba(x []float64) ([]float64, error) {
	a := x
	last := len(m.Coefs) - 1
	for l, w := range m.Coefs {
		z := append([]float64(nil), m.Intercepts[l]...)
		for i, xi := range a {
			for j, wij := range w[i] {
				z[j] += xi * wij
			}
		}
		if l < last {
			activate(m.Activation, z)
		}
		a = z
	}

	if len(a) == 1 {
		p := 1 / (1 + math.Exp(-a[0]))
		return []float64{1 - p, p}, nil
	}
	return softmax(a), nil
}

func activate(kind string, z []float64) {
	for i, v := range z {
		switch kind {
		case "relu":
			z[i] = math.Max(0, v)
		case "tanh":
			z[i] = math.Tanh(v)
		case "logistic":
			z[i] = 1 / (1 + math.Exp(-v))
		}
	}
}

func (m *MLP) validate() error {
	switch m.Activation {
	case "":
		m.Activation = "relu"
	case "relu", "tanh", "logistic", "identity":
	default:
		return fmt.Errorf("unknown activation %q", m.Activation)
	}
	if len(m.Coefs) == 0 || len(m.Coefs) != len(m.Intercepts) {
		return errors.New("mlp needs one intercept vector per layer")
	}
	in := m.Features
	for l, w := range m.Coefs {
		if len(w) != in {
			return fmt.Errorf("layer %d expects %d inputs, has %d rows", l, in, len(w))
		}
		out := len(m.Intercepts[l])
		for i := range w {
			if len(w[i]) != out {
				return fmt.Errorf("layer %d row %d has %d outputs, expected %d", l, i, len(w[i]), out)
			}
		}
		in = out
	}
	if in == 1 && m.Classes != 2 || in != 1 && in != m.Classes {
		return fmt.Errorf("output layer has %d units for %d classes", in, m.Classes)
	}
	return nil
}
