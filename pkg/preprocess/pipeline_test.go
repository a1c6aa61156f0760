package preprocess

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yumyai/bgcclass/pkg/errs"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	scaler := &RobustScaler{Center: []float64{1, 1}, Scale: []float64{2, 2}}
	reducer := &NeighborEmbedding{
		NNeighbors:        1,
		LocalConnectivity: 1,
		Data:              [][]float64{{1, 1}, {3, 3}},
		Embedding:         [][]float64{{10}, {20}},
	}
	p, err := NewPipeline(scaler, reducer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestPipelineScalesBeforeReducing(t *testing.T) {
	p := testPipeline(t)

	// [3,3] scales to [1,1], whose nearest neighbor embeds at 10.
	// Reducing the raw vector first would land on 20 instead.
	out, err := p.Prepare([][]float64{{3}, {3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []float64{10}) {
		t.Fatalf("got %v, want [10]", out)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	p := testPipeline(t)
	a, err := p.Prepare([][]float64{{2.5, 7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.Prepare([][]float64{{2.5, 7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input gave %v and %v", a, b)
	}
}

func TestPipelineShapeMismatch(t *testing.T) {
	p := testPipeline(t)

	_, err := p.Prepare([][]float64{{1, 2, 3}})
	var sm *errs.ShapeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
	if sm.Want != 2 || sm.Got != 3 {
		t.Fatalf("unexpected mismatch %+v", sm)
	}

	scaler := &RobustScaler{Center: []float64{0, 0, 0}}
	reducer := &NeighborEmbedding{NNeighbors: 1, Data: [][]float64{{0, 0}}, Embedding: [][]float64{{0}}}
	if _, err := NewPipeline(scaler, reducer); !errors.Is(err, errs.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch composing 3->2, got %v", err)
	}
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	p := testPipeline(t)
	rows := [][]float64{{3, 3}}
	if _, err := p.Prepare(rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rows, [][]float64{{3, 3}}) {
		t.Fatalf("input modified: %v", rows)
	}
}

func TestNeighborEmbeddingWeightedMean(t *testing.T) {
	n := &NeighborEmbedding{
		NNeighbors:        2,
		LocalConnectivity: 1,
		Data:              [][]float64{{1, 0}, {-1, 0}, {50, 50}},
		Embedding:         [][]float64{{0, 1}, {4, 1}, {100, 100}},
	}
	out, err := n.Transform([]float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(out[0]-2) > 1e-9 || math.Abs(out[1]-1) > 1e-9 {
		t.Fatalf("expected the midpoint [2 1], got %v", out)
	}

	// closer neighbor pulls harder
	out, err = n.Transform([]float64{0.9, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] >= 2 {
		t.Fatalf("expected result pulled towards 0, got %v", out)
	}
}

func TestLoadRobustScaler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaler.json")
	if err := os.WriteFile(path, []byte(`{"center":[1,2],"scale":[0,4]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadRobustScaler(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _ := s.Transform([]float64{3, 10})
	if !reflect.DeepEqual(out, []float64{2, 2}) {
		t.Fatalf("got %v, want [2 2]", out)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"center":[1,2],"scale":[1]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRobustScaler(bad); err == nil {
		t.Fatal("expected error for mismatched center/scale")
	}
}

func TestLoadNeighborEmbeddingValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "umap.json")
	if err := os.WriteFile(path, []byte(`{"n_neighbors":2,"data":[[0,0],[1]],"embedding":[[0],[1]]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadNeighborEmbedding(path); err == nil {
		t.Fatal("expected error for ragged data")
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten([][]float64{{1, 2}, {}, {3}})
	if !reflect.DeepEqual(got, []float64{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}
}
