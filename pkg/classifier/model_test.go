package classifier

import (
	"math"
	"testing"
)

func leaf(values ...float64) Tree {
	return Tree{
		Feature:   []int{-1},
		Threshold: []float64{0},
		Left:      []int{-1},
		Right:     []int{-1},
		Value:     [][]float64{values},
	}
}

func stump(feature int, threshold float64, left, right []float64) Tree {
	return Tree{
		Feature:   []int{feature, -1, -1},
		Threshold: []float64{threshold, 0, 0},
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Value:     [][]float64{nil, left, right},
	}
}

func testForest() *Forest {
	return &Forest{
		shape: shape{Features: 2, Classes: 3},
		Trees: []Tree{
			stump(0, 0.5, []float64{8, 2, 0}, []float64{0, 1, 9}),
			stump(1, 0, []float64{0, 10, 0}, []float64{5, 5, 0}),
		},
	}
}

func testBooster() *GradientBoostedTrees {
	return &GradientBoostedTrees{
		shape:     shape{Features: 2, Classes: 3},
		BaseScore: 0.5,
		Trees: []Tree{
			stump(0, 1, []float64{2}, []float64{-1}),
			leaf(0),
			leaf(0),
		},
		TreeClass: []int{0, 1, 2},
	}
}

func testKNN(weights string) *KNeighbors {
	return &KNeighbors{
		shape:   shape{Features: 2, Classes: 3},
		K:       3,
		Weights: weights,
		P:       2,
		X:       [][]float64{{0, 0}, {1, 0}, {0, 1}, {10, 10}},
		Y:       []int{0, 1, 1, 2},
	}
}

func testMLP() *MLP {
	return &MLP{
		shape:      shape{Features: 2, Classes: 3},
		Activation: "relu",
		Coefs: [][][]float64{
			{{1, 0}, {0, 1}},
			{{1, 0, 0}, {0, 1, 0}},
		},
		Intercepts: [][]float64{{0, 0}, {0, 0, 0}},
	}
}

func testAdaBoost(algorithm string) *AdaBoostEnsemble {
	return &AdaBoostEnsemble{
		shape:     shape{Features: 2, Classes: 3},
		Algorithm: algorithm,
		Estimators: []Forest{
			{shape: shape{Features: 2, Classes: 3}, Trees: []Tree{leaf(1, 0, 0)}},
			{shape: shape{Features: 2, Classes: 3}, Trees: []Tree{leaf(0, 1, 0)}},
			{shape: shape{Features: 2, Classes: 3}, Trees: []Tree{leaf(0, 1, 0)}},
		},
		Weights: []float64{3, 1, 1},
	}
}

func approx(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestForestAveragesTrees(t *testing.T) {
	f := testForest()
	if err := f.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := f.PredictProba([]float64{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, p, []float64{0.65, 0.35, 0})

	// threshold is inclusive on the left
	p, _ = f.PredictProba([]float64{0.5, 0})
	approx(t, p, []float64{0.4, 0.6, 0})
}

func TestGradientBoostingStrictSplit(t *testing.T) {
	g := testBooster()
	if err := g.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// x0 == threshold goes right under the strict rule: margins [-0.5, 0.5, 0.5]
	p, err := g.PredictProba([]float64{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if argmax(p) != 1 || math.Abs(p[1]-p[2]) > 1e-12 {
		t.Fatalf("unexpected probabilities %v", p)
	}

	p, _ = g.PredictProba([]float64{0, 0})
	if argmax(p) != 0 {
		t.Fatalf("expected class 0, got %v", p)
	}
}

func TestAdaBoostSAMME(t *testing.T) {
	a := testAdaBoost(SAMME)
	if err := a.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := a.PredictProba([]float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// votes: class 0 gets 3 - 0.5 - 0.5, class 1 gets -1.5 + 1 + 1, class 2 gets -1.5 - 0.5 - 0.5;
	// decision [2, 0.5, -2.5] / 5 / 2
	want := softmax([]float64{0.2, 0.05, -0.25})
	approx(t, p, want)
}

func TestAdaBoostSAMMESingleEstimator(t *testing.T) {
	a := &AdaBoostEnsemble{
		shape:      shape{Features: 1, Classes: 3},
		Algorithm:  SAMME,
		Estimators: []Forest{{Trees: []Tree{leaf(1, 0, 0)}}},
		Weights:    []float64{1},
	}
	if err := a.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := a.PredictProba([]float64{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, p, softmax([]float64{0.5, -0.25, -0.25}))
	if math.Abs(p[0]-0.5142) > 1e-4 || math.Abs(p[1]-0.2429) > 1e-4 {
		t.Fatalf("unexpected probabilities %v", p)
	}
}

func TestAdaBoostSAMMERRecoversSingleEstimator(t *testing.T) {
	a := &AdaBoostEnsemble{
		shape:     shape{Features: 1, Classes: 3},
		Algorithm: SAMMER,
		Estimators: []Forest{
			{Trees: []Tree{leaf(2, 1, 1)}},
		},
	}
	if err := a.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := a.PredictProba([]float64{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, p, []float64{0.5, 0.25, 0.25})
}

func TestKNeighbors(t *testing.T) {
	m := testKNN("uniform")
	if err := m.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := m.PredictProba([]float64{0, 0})
	approx(t, p, []float64{1.0 / 3, 2.0 / 3, 0})

	d := testKNN("distance")
	if err := d.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ = d.PredictProba([]float64{0, 0})
	approx(t, p, []float64{1, 0, 0})

	p, _ = d.PredictProba([]float64{0.5, 0})
	if argmax(p) != 1 {
		t.Fatalf("expected class 1, got %v", p)
	}
}

func TestMLP(t *testing.T) {
	m := testMLP()
	if err := m.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := m.PredictProba([]float64{2, -1})
	approx(t, p, softmax([]float64{2, 0, 0}))

	p, _ = m.PredictProba([]float64{-1, 3})
	if argmax(p) != 1 {
		t.Fatalf("expected class 1, got %v", p)
	}

	bad := testMLP()
	bad.Coefs[1] = [][]float64{{1, 0}, {0, 1}}
	bad.Intercepts[1] = []float64{0, 0}
	if err := bad.validate(); err == nil {
		t.Fatal("expected error for 2 output units and 3 classes")
	}
}

func TestTreeValidate(t *testing.T) {
	cyclic := stump(0, 0, []float64{1}, []float64{1})
	cyclic.Left[0] = 0
	if err := cyclic.validate(1, 1); err == nil {
		t.Error("expected error for a self-referencing node")
	}

	wide := stump(3, 0, []float64{1}, []float64{1})
	if err := wide.validate(2, 1); err == nil {
		t.Error("expected error for an out of range feature")
	}

	short := leaf(1, 2)
	if err := short.validate(1, 3); err == nil {
		t.Error("expected error for a leaf with the wrong number of classes")
	}
}

func TestParseBackend(t *testing.T) {
	for _, b := range AllBackends {
		got, ok := ParseBackend(b.String())
		if !ok || got != b {
			t.Errorf("%s did not round trip", b)
		}
	}
	if _, ok := ParseBackend("svm"); ok {
		t.Error("svm is not a backend")
	}
}
