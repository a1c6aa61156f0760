package preprocess

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

const (
	smoothKNNTolerance = 1e-5
	smoothKNNIters     = 64
	minKDistScale      = 1e-3
)

// NeighborEmbedding places a new sample in a fitted low-dimensional embedding (UMAP style).
// The sample's nearest training points are weighted by fuzzy set membership and the output
// is the membership-weighted mean of their embedded coordinates. There is no stochastic
// refinement, so the same input always maps to the same point.
type NeighborEmbedding struct {
	NNeighbors int `json:"n_neighbors"`
	// LocalConnectivity as fitted; new points use LocalConnectivity-1 (never below 0).
	LocalConnectivity float64     `json:"local_connectivity"`
	Data              [][]float64 `json:"data"`
	Embedding         [][]float64 `json:"embedding"`
}

type neighbor struct {
	index int
	dist  float64
}

func (n *NeighborEmbedding) Name() string { return "neighbor_embedding" }

func (n *NeighborEmbedding) InputDim() int { return len(n.Data[0]) }

func (n *NeighborEmbedding) OutputDim() int { return len(n.Embedding[0]) }

func (n *NeighborEmbedding) Transform(x []float64) ([]float64, error) {
	neighbors := n.nearest(x)

	dists := make([]float64, len(neighbors))
	for i, nb := range neighbors {
		dists[i] = nb.dist
	}
	rho, sigma := smoothKNNDist(dists, float64(len(neighbors)), math.Max(0, n.LocalConnectivity-1))

	out := make([]float64, n.OutputDim())
	total := 0.0
	for _, nb := range neighbors {
		w := membership(nb.dist, rho, sigma)
		total += w
		for j, v := range n.Embedding[nb.index] {
			out[j] += w * v
		}
	}
	if total == 0 || math.IsNaN(total) {
		return nil, errors.New("neighbor weights vanished")
	}
	for j := range out {
		out[j] /= total
	}
	return out, nil
}

// nearest returns the k closest training points, ties broken by index.
func (n *NeighborEmbedding) nearest(x []float64) []neighbor {
	all := make([]neighbor, len(n.Data))
	for i, row := range n.Data {
		all[i] = neighbor{index: i, dist: euclidean(x, row)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].dist < all[b].dist })

	k := n.NNeighbors
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}

func membership(d, rho, sigma float64) float64 {
	v := d - rho
	if v <= 0 {
		return 1
	}
	return math.Exp(-v / sigma)
}

// smoothKNNDist finds rho (distance to the local_connectivity-th neighbor) and sigma such
// that the memberships of the k neighbors sum to log2(k).
func smoothKNNDist(dists []float64, k, localConnectivity float64) (float64, float64) {
	target := math.Log2(k)

	rho := 0.0
	var nonZero []float64
	for _, d := range dists {
		if d > 0 {
			nonZero = append(nonZero, d)
		}
	}
	if len(nonZero) > 0 && localConnectivity > 0 {
		idx := int(math.Floor(localConnectivity))
		interp := localConnectivity - float64(idx)
		switch {
		case idx >= len(nonZero):
			rho = nonZero[len(nonZero)-1]
		case idx > 0:
			rho = nonZero[idx-1] + interp*(nonZero[idx]-nonZero[idx-1])
		default:
			rho = interp * nonZero[0]
		}
	}

	lo, hi, mid := 0.0, math.Inf(1), 1.0
	for iter := 0; iter < smoothKNNIters; iter++ {
		psum := 0.0
		for _, d := range dists {
			psum += membership(d, rho, mid)
		}
		if math.Abs(psum-target) < smoothKNNTolerance {
			break
		}
		if psum > target {
			hi = mid
			mid = (lo + hi) / 2
		} else {
			lo = mid
			if math.IsInf(hi, 1) {
				mid *= 2
			} else {
				mid = (lo + hi) / 2
			}
		}
	}

	mean := 0.0
	for _, d := range dists {
		mean += d
	}
	if len(dists) > 0 {
		mean /= float64(len(dists))
	}
	if floor := minKDistScale * mean; mid < floor {
		mid = floor
	}
	if mid == 0 {
		// every neighbor sits on the sample
		mid = 1
	}
	return rho, mid
}

func euclidean(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

func (n *NeighborEmbedding) validate() error {
	if len(n.Data) == 0 {
		return errors.New("neighbor embedding has no training data")
	}
	if len(n.Data) != len(n.Embedding) {
		return fmt.Errorf("neighbor embedding has %d training rows but %d embedded rows", len(n.Data), len(n.Embedding))
	}
	if n.NNeighbors <= 0 {
		return fmt.Errorf("n_neighbors must be positive, got %d", n.NNeighbors)
	}
	in, out := len(n.Data[0]), len(n.Embedding[0])
	if in == 0 || out == 0 {
		return errors.New("neighbor embedding has empty rows")
	}
	for i := range n.Data {
		if len(n.Data[i]) != in || len(n.Embedding[i]) != out {
			return fmt.Errorf("neighbor embedding row %d is ragged", i)
		}
	}
	if n.LocalConnectivity == 0 {
		n.LocalConnectivity = 1
	}
	return nil
}

func LoadNeighborEmbedding(path string) (*NeighborEmbedding, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var n NeighborEmbedding
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := n.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &n, nil
}

// LoadPipeline reads the scaler and reducer artifacts and composes them.
func LoadPipeline(scalerPath, reducerPath string) (*Pipeline, error) {
	scaler, err := LoadRobustScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	reducer, err := LoadNeighborEmbedding(reducerPath)
	if err != nil {
		return nil, err
	}
	return NewPipeline(scaler, reducer)
}
