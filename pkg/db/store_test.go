package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yumyai/bgcclass/pkg/classifier"
)

const (
	testScaler  = `{"center": [0, 0, 0], "scale": [1, 2, 0]}`
	testReducer = `{"n_neighbors": 2, "local_connectivity": 1, "data": [[0, 0, 0], [10, 10, 10]], "embedding": [[0, 1], [1, 0]]}`
	testForest  = `{"type": "random_forest", "n_features": 2, "n_classes": 3, "model": {"trees": [{
		"feature": [0, -2, -2], "threshold": [0.5, -2, -2],
		"children_left": [1, -1, -1], "children_right": [2, -1, -1],
		"value": [[1, 1, 1], [8, 2, 0], [0, 1, 9]]}]}}`
)

var testVectors = map[string][]float64{
	"MKL":   {1},
	"VAM":   {2},
	"KLV":   {3},
	"AMK":   {4},
	"LVA":   {5},
	"<unk>": {0},
}

// testModelDir lays out a complete artifact directory and returns it with its file names.
func testModelDir(t *testing.T) (string, ArtifactFiles) {
	t.Helper()
	dir := t.TempDir()
	files := ArtifactFiles{
		Embedding:   "protvec.db",
		Scaler:      "scaler.json",
		Reducer:     "reducer.json",
		Classifiers: map[string]string{"random_forest": "rf.json", "nn": "rf.json"},
	}

	if err := WriteProtVecSQLite(filepath.Join(dir, files.Embedding), testVectors); err != nil {
		t.Fatalf("writing protvec table: %v", err)
	}
	for name, body := range map[string]string{
		files.Scaler:  testScaler,
		files.Reducer: testReducer,
		"rf.json":     testForest,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, files
}

func TestProtVecSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protvec.db")
	if err := WriteProtVecSQLite(path, testVectors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// rewriting replaces rows instead of failing on the primary key
	if err := WriteProtVecSQLite(path, map[string][]float64{"MKL": {9}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := LoadProtVecSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(testVectors) {
		t.Fatalf("expected %d k-mers, got %d", len(testVectors), len(got))
	}
	if got["MKL"][0] != 9 || got["LVA"][0] != 5 {
		t.Errorf("unexpected vectors %v", got)
	}
}

func TestLoadProtVecSQLiteWithoutTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if _, err := LoadProtVecSQLite(path); err == nil {
		t.Fatal("expected error for a database without the protvec table")
	}
}

func TestNewModelStoreReportsMissingFiles(t *testing.T) {
	dir, files := testModelDir(t)
	if _, err := NewModelStore(dir, files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewModelStore(filepath.Join(dir, "nope"), files); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist for a missing directory, got %v", err)
	}

	broken := files
	broken.Scaler = "missing_scaler.json"
	broken.Reducer = "missing_reducer.json"
	_, err := NewModelStore(dir, broken)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing_scaler.json") || !strings.Contains(err.Error(), "missing_reducer.json") {
		t.Errorf("expected both missing files in %q", err)
	}

	unknown := files
	unknown.Classifiers = map[string]string{"svm": "rf.json"}
	if _, err := NewModelStore(dir, unknown); err == nil {
		t.Error("expected error for an unknown backend")
	}
}

func TestOpenArtifacts(t *testing.T) {
	dir, files := testModelDir(t)
	store, err := NewModelStore(dir, files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	art, err := Open(store, EmbeddingOptions{K: 3, AllowUnknown: true, CacheSize: 16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backends := art.Dispatch.Backends()
	if len(backends) != 2 || backends[0] != classifier.RandomForest || backends[1] != classifier.NeuralNetwork {
		t.Fatalf("unexpected backends %v", backends)
	}

	record := `LOCUS       T1                    9 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     CDS             1..9
                     /translation="MKLVAMK"
ORIGIN
        1 atgaaactg
//
`
	report, err := art.Analysis.Analyze(context.Background(), strings.NewReader(record), classifier.RandomForest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Prepared) != 2 || len(report.Predictions) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	p := report.Predictions[0]
	sum := p.Probabilities[0] + p.Probabilities[1] + p.Probabilities[2]
	if sum < 1-1e-9 || sum > 1+1e-9 {
		t.Errorf("probabilities sum to %v", sum)
	}
}

func TestOpenWord2VecEmbedding(t *testing.T) {
	dir, files := testModelDir(t)
	text := "5 1\nMKL 1\nVAM 2\nKLV 3\nAMK 4\nLVA 5\n"
	if err := os.WriteFile(filepath.Join(dir, "protvec.txt"), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	files.Embedding = "protvec.txt"

	store, err := NewModelStore(dir, files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, err := store.LoadEmbedder(EmbeddingOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	emb, err := e.Embed("MKLVAMK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb[0][0] != 3 || emb[1][0] != 7 || emb[2][0] != 5 {
		t.Errorf("unexpected embedding %v", emb)
	}
}

func TestDefaultArtifactFilesCoverEveryBackend(t *testing.T) {
	files := DefaultArtifactFiles()
	for _, b := range classifier.AllBackends {
		if files.Classifiers[string(b)] == "" {
			t.Errorf("no default artifact for %s", b)
		}
	}
}
